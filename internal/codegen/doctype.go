package codegen

// doctypes maps the shorthand names to their full declarations. Anything
// else renders as a literal <!DOCTYPE value>.
var doctypes = map[string]string{
	"html": "<!DOCTYPE html>",
	"xml":  `<?xml version="1.0" encoding="utf-8" ?>`,
	"transitional": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" ` +
		`"http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`,
	"strict": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" ` +
		`"http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
	"frameset": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Frameset//EN" ` +
		`"http://www.w3.org/TR/xhtml1/DTD/xhtml1-frameset.dtd">`,
	"1.1": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" ` +
		`"http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">`,
	"basic": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML Basic 1.1//EN" ` +
		`"http://www.w3.org/TR/xhtml-basic/xhtml-basic11.dtd">`,
	"mobile": `<!DOCTYPE html PUBLIC "-//WAPFORUM//DTD XHTML Mobile 1.2//EN" ` +
		`"http://www.openmobilealliance.org/tech/DTD/xhtml-mobile12.dtd">`,
}

// doctypeDecl renders a doctype value.
func doctypeDecl(value string) string {
	if d, ok := doctypes[value]; ok {
		return d
	}
	return "<!DOCTYPE " + value + ">"
}

// terseDoctype reports whether a doctype switches output to terse HTML
// mode (bare boolean attributes, unclosed void elements).
func terseDoctype(value string) bool {
	return value == "" || value == "html"
}

// voidElements never take children; in terse mode they render unclosed.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTags preserve their content's whitespace exactly.
var rawTags = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
	"code": true,
}
