package diag

import (
	"fmt"
)

// Code is a stable diagnostic identifier. Groups follow the pipeline
// stages: LEX 1000s, SYN 2000s, LOD 4000s, LNK 5000s, GEN 6000s.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                      Code = 1000
	LexBadIndent                 Code = 1001
	LexMixedIndent               Code = 1002
	LexUnterminatedInterpolation Code = 1003
	LexUnterminatedString        Code = 1004
	LexUnclosedAttrList          Code = 1005
	LexUnknownChar               Code = 1006

	// Syntax
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnexpectedOutdent Code = 2002
	SynMalformedAttr     Code = 2003
	SynExpectBlockName   Code = 2004
	SynExpectMixinName   Code = 2005
	SynMalformedEach     Code = 2006
	SynElseWithoutIf     Code = 2007
	SynWhenOutsideCase   Code = 2008
	SynExtendsNotFirst   Code = 2009
	SynRestParamNotLast  Code = 2010
	SynExpectPath        Code = 2011

	// Loading (includes and extends)
	LodInfo         Code = 4000
	LodFileNotFound Code = 4001
	LodReadError    Code = 4002
	LodIncludeCycle Code = 4003
	LodPathEscape   Code = 4004

	// Linking (block graph)
	LnkInfo            Code = 5000
	LnkExtendsConflict Code = 5001
	LnkDanglingBlock   Code = 5002

	// Code generation (internal-consistency only) and expansion limits
	GenInfo              Code = 6000
	GenVoidWithChildren  Code = 6001
	GenUnresolvedNode    Code = 6002
	GenMixRecursionLimit Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	LexInfo:                      "Lexical information",
	LexBadIndent:                 "Indentation does not match any enclosing level",
	LexMixedIndent:               "Tabs and spaces mixed in indentation",
	LexUnterminatedInterpolation: "Unterminated interpolation",
	LexUnterminatedString:        "Unterminated string",
	LexUnclosedAttrList:          "Unclosed attribute list",
	LexUnknownChar:               "Unknown character",
	SynInfo:                      "Syntax information",
	SynUnexpectedToken:           "Unexpected token",
	SynUnexpectedOutdent:         "Unexpected outdent",
	SynMalformedAttr:             "Malformed attribute",
	SynExpectBlockName:           "Expected block name",
	SynExpectMixinName:           "Expected mixin name",
	SynMalformedEach:             "Malformed each binding",
	SynElseWithoutIf:             "'else' without matching 'if' or 'unless'",
	SynWhenOutsideCase:           "'when' outside of 'case'",
	SynExtendsNotFirst:           "'extends' must be the first construct in the file",
	SynRestParamNotLast:          "Rest parameter must be last",
	SynExpectPath:                "Expected file path",
	LodInfo:                      "Loader information",
	LodFileNotFound:              "File not found",
	LodReadError:                 "File read error",
	LodIncludeCycle:              "Include or extends cycle",
	LodPathEscape:                "Path resolves outside the base directory",
	LnkInfo:                      "Linker information",
	LnkExtendsConflict:           "Conflicting extends chain",
	LnkDanglingBlock:             "Block has no resolvable parent",
	GenInfo:                      "Codegen information",
	GenVoidWithChildren:          "Void or self-closing element has children",
	GenUnresolvedNode:            "Unresolved node reached the code generator",
	GenMixRecursionLimit:         "Mixin expansion recursion limit reached",
}

// ID renders the short stable identifier, e.g. "LEX1003".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOD%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
