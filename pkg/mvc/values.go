package mvc

import (
	"io"
	"mime/multipart"
	"net/url"
	"sort"
)

// QueryString is the parsed query of a request
type QueryString struct {
	raw    string
	values url.Values
}

// ParseQueryString parses a raw query. Malformed pairs are skipped.
func ParseQueryString(raw string) QueryString {
	values, _ := url.ParseQuery(raw)
	return QueryString{raw: raw, values: values}
}

// String returns the raw query without the leading ?
func (q QueryString) String() string {
	return q.raw
}

// Get returns the first value for the given key, or empty string if not found
func (q QueryString) Get(key string) string {
	return q.values.Get(key)
}

// GetDefault returns the first value for the given key, or the default value if not found
func (q QueryString) GetDefault(key, defaultValue string) string {
	if value := q.values.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// Values returns all values for the given key
func (q QueryString) Values(key string) ([]string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// Has returns true if the key exists in the query parameters
func (q QueryString) Has(key string) bool {
	_, exists := q.values[key]
	return exists
}

// Keys returns all query parameter keys, sorted
func (q QueryString) Keys() []string {
	return sortedKeys(map[string][]string(q.values))
}

// ToMap returns the underlying values
func (q QueryString) ToMap() map[string][]string {
	return q.values
}

// Formdata holds the values of an url-encoded or multipart form
type Formdata map[string][]string

// Get returns the first value of a field
func (f Formdata) Get(name string) string {
	if v := f[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns every value of a field
func (f Formdata) Values(name string) ([]string, bool) {
	v, ok := f[name]
	return v, ok
}

// Keys returns the field names, sorted
func (f Formdata) Keys() []string {
	return sortedKeys(map[string][]string(f))
}

// FlashMap holds the flash values a previous request of the same session
// left for this one
type FlashMap map[string]any

// Get returns a flash value
func (f FlashMap) Get(name string) (any, bool) {
	v, ok := f[name]
	return v, ok
}

// Body is the raw request body with its media type
type Body struct {
	ContentType string
	Data        []byte
}

// String returns the body as text
func (b Body) String() string {
	return string(b.Data)
}

// Len returns the body size
func (b Body) Len() int {
	return len(b.Data)
}

// FileUpload is a file of a multipart request
type FileUpload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	header      *multipart.FileHeader
}

// NewFileUpload wraps the header of an uploaded file
func NewFileUpload(field string, fh *multipart.FileHeader) FileUpload {
	return FileUpload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		header:      fh,
	}
}

// Open opens the uploaded content
func (f FileUpload) Open() (io.ReadCloser, error) {
	if f.header == nil {
		return nil, ErrMissing
	}
	return f.header.Open()
}

// Bytes reads the whole upload
func (f FileUpload) Bytes() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// FilePath is the path of a temporary copy of an uploaded file. The caller
// owns the file and removes it when done.
type FilePath string

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
