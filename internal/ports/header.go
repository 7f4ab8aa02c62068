package ports

// HeaderDefinesPort extracts preprocessor defines from a C/C++ header.
type HeaderDefinesPort interface {
	// Defines maps each #define name to its raw trailing text.
	Defines(path string) (map[string]string, error)
}
