package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"plume/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.plume...",
	Short: "Compile templates to HTML",
	Long: `Compile runs the full pipeline on one or more template files:
load (includes and inheritance), link, expand mixins, generate HTML.
A single file prints to stdout unless --out is set; several files are
compiled in parallel and written next to their sources or under --out.
Pass "-" to read one template from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("out", "o", "", "output file (single input) or directory")
	compileCmd.Flags().Bool("pretty", false, "indent the HTML output")
	compileCmd.Flags().String("indent", "", "pretty-print unit (default two spaces)")
	compileCmd.Flags().String("doctype", "", "doctype applied when the document declares none")
	compileCmd.Flags().String("basedir", "", "root for include and extends resolution")
	compileCmd.Flags().String("data", "", "TOML file with values for expression lookup")
	compileCmd.Flags().Bool("no-cache", false, "bypass the render cache")
	compileCmd.Flags().Int("jobs", 0, "max parallel compilations (0=auto)")
	compileCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	out, err := flags.GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	pretty, err := flags.GetBool("pretty")
	if err != nil {
		return fmt.Errorf("failed to get pretty flag: %w", err)
	}
	indent, err := flags.GetString("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	doctype, err := flags.GetString("doctype")
	if err != nil {
		return fmt.Errorf("failed to get doctype flag: %w", err)
	}
	basedir, err := flags.GetString("basedir")
	if err != nil {
		return fmt.Errorf("failed to get basedir flag: %w", err)
	}
	dataPath, err := flags.GetString("data")
	if err != nil {
		return fmt.Errorf("failed to get data flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	// manifest values fill in whatever the flags left untouched
	manifest, haveManifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	if haveManifest {
		build := manifest.Config.Build
		if !flags.Changed("basedir") && build.Basedir != "" {
			basedir = manifest.resolveAgainstRoot(build.Basedir)
		}
		if !flags.Changed("out") && build.Out != "" {
			out = manifest.resolveAgainstRoot(build.Out)
		}
		if !flags.Changed("pretty") {
			pretty = build.Pretty
		}
		if !flags.Changed("indent") && build.Indent != "" {
			indent = build.Indent
		}
		if !flags.Changed("doctype") && build.Doctype != "" {
			doctype = build.Doctype
		}
	}

	opts := driver.Options{
		Basedir:        basedir,
		Pretty:         pretty,
		Indent:         indent,
		Doctype:        doctype,
		MaxDiagnostics: maxDiagnostics,
	}

	var fingerprint []byte
	if dataPath != "" {
		lookup, raw, err := loadDataFile(dataPath)
		if err != nil {
			return err
		}
		opts.Lookup = lookup
		fingerprint = raw
	}

	if len(args) == 1 && args[0] == "-" {
		return compileStdin(cmd, opts, out)
	}
	for _, p := range args {
		if p == "-" {
			return fmt.Errorf("stdin input cannot be combined with file arguments")
		}
	}

	var cache *driver.DiskCache
	if !noCache {
		cache, err = driver.OpenDiskCache("plume")
		if err != nil {
			// a missing cache never blocks a compile
			fmt.Fprintf(os.Stderr, "warning: render cache unavailable: %v\n", err)
			cache = nil
		}
	}

	// single file to stdout: no batch, no UI
	if len(args) == 1 && out == "" {
		var res *driver.Result
		if cache != nil {
			res = driver.CompileCached(cache, args[0], opts, fingerprint)
		} else {
			res = driver.Compile(args[0], opts)
		}
		if !res.Ok {
			if err := printBag(cmd, res.Bag, res.FileSet); err != nil {
				return err
			}
			return fmt.Errorf("compilation failed: %s", args[0])
		}
		return writeHTML(os.Stdout, res.HTML)
	}

	results, err := runBatch(cmd, mode, quiet, args, cache, opts, fingerprint, jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Res == nil || !r.Res.Ok {
			failed++
			if r.Res != nil {
				fmt.Fprintf(os.Stderr, "== %s ==\n", r.Path)
				if err := printBag(cmd, r.Res.Bag, r.Res.FileSet); err != nil {
					return err
				}
			}
			continue
		}
		target := outputPathFor(r.Path, out, len(args) == 1)
		if err := writeHTMLFile(target, r.Res.HTML); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "compiled %d file(s)\n", len(args))
	}
	return nil
}

func runBatch(cmd *cobra.Command, mode uiMode, quiet bool, paths []string, cache *driver.DiskCache, opts driver.Options, fingerprint []byte, jobs int) ([]driver.BatchResult, error) {
	ctx := cmd.Context()
	if mode.enabled() && !quiet {
		return compileAllWithUI(ctx, "compiling templates", paths, cache, opts, fingerprint, jobs)
	}
	return driver.CompileAll(ctx, cache, paths, opts, fingerprint, jobs)
}

// compileStdin renders one template read from standard input. Stdin
// renders are never cached: there is no file to validate against.
func compileStdin(cmd *cobra.Command, opts driver.Options, out string) error {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	res := driver.CompileContent("<stdin>", content, opts)
	if !res.Ok {
		if err := printBag(cmd, res.Bag, res.FileSet); err != nil {
			return err
		}
		return fmt.Errorf("compilation failed: <stdin>")
	}
	if out == "" {
		return writeHTML(os.Stdout, res.HTML)
	}
	return writeHTMLFile(out, res.HTML)
}

// outputPathFor maps a template path to its .html destination. With an
// out of "" the result lands next to the source; a single input may name
// its output file directly.
func outputPathFor(src, out string, single bool) string {
	name := strings.TrimSuffix(src, driver.DefaultTemplateExt) + ".html"
	if out == "" {
		return name
	}
	if single && filepath.Ext(out) == ".html" {
		return out
	}
	return filepath.Join(out, filepath.Base(name))
}

func writeHTML(w io.Writer, html string) error {
	if _, err := io.WriteString(w, html); err != nil {
		return err
	}
	if !strings.HasSuffix(html, "\n") {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func writeHTMLFile(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if !strings.HasSuffix(html, "\n") {
		html += "\n"
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
