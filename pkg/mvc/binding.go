package mvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Nullability tells a binding helper how to treat an absent value
type Nullability bool

const (
	// Required fails the request with 400 when the value is absent
	Required Nullability = false
	// Nullable yields the zero value when the value is absent
	Nullable Nullability = true
)

// Source is a place a named request value is looked up in
type Source int

const (
	FromPath Source = iota
	FromQuery
	FromHeader
	FromCookie
	FromForm
	FromSession
	FromFlash
)

// AllSources is the lookup order of Lookup without explicit sources
var AllSources = []Source{FromPath, FromQuery, FromHeader, FromCookie, FromForm, FromSession, FromFlash}

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case FromPath:
		return "path"
	case FromQuery:
		return "query"
	case FromHeader:
		return "header"
	case FromCookie:
		return "cookie"
	case FromForm:
		return "form"
	case FromSession:
		return "session"
	case FromFlash:
		return "flash"
	default:
		return "unknown"
	}
}

// PathParam binds a pattern variable
func PathParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromPath)
}

// QueryParam binds a query parameter. Struct targets are decoded from the
// whole query.
func QueryParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromQuery)
}

// HeaderParam binds a request header
func HeaderParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromHeader)
}

// CookieParam binds a request cookie
func CookieParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromCookie)
}

// FormParam binds a form field. Struct targets are decoded from the whole
// form.
func FormParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromForm)
}

// SessionParam binds a session attribute
func SessionParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromSession)
}

// FlashParam binds a flash value left by the previous request
func FlashParam[T any](ctx Context, name string, n Nullability) (T, error) {
	return bind[T](ctx, name, n, FromFlash)
}

// Lookup binds the first of sources carrying name, every source in
// AllSources order when none are given
func Lookup[T any](ctx Context, name string, n Nullability, sources ...Source) (T, error) {
	if len(sources) == 0 {
		sources = AllSources
	}
	return bind[T](ctx, name, n, sources...)
}

func bind[T any](ctx Context, name string, n Nullability, sources ...Source) (T, error) {
	var zero T
	target := reflect.TypeFor[T]()
	bean := isBean(target)
	for _, src := range sources {
		v, ok, err := src.lookup(ctx, name, bean)
		if err != nil {
			return zero, err
		}
		if !ok || (blank(v) && !textual(target)) {
			continue
		}
		out, err := As[T](v)
		if err != nil {
			return zero, ErrBadRequest(fmt.Sprintf("invalid %s parameter %s", src, name), err)
		}
		return out, nil
	}
	if n == Required && !target.Implements(optionalType) {
		return zero, missing(name, sources)
	}
	return zero, nil
}

func (s Source) lookup(ctx Context, name string, bean bool) (any, bool, error) {
	switch s {
	case FromPath:
		v, ok := ctx.PathParam(name)
		return v, ok, nil
	case FromQuery:
		q := ctx.QueryString()
		if bean {
			values := q.ToMap()
			return flatten(values), len(values) > 0, nil
		}
		v, ok := q.Values(name)
		return v, ok, nil
	case FromHeader:
		v := ctx.Header(name)
		return v, len(v) > 0, nil
	case FromCookie:
		v, ok := ctx.Cookie(name)
		return v, ok, nil
	case FromForm:
		form, err := ctx.Form()
		if err != nil {
			return nil, false, ErrBadRequest("malformed form", err)
		}
		if bean {
			return flatten(form), len(form) > 0, nil
		}
		v, ok := form[name]
		return v, ok, nil
	case FromSession, FromFlash:
		sess, err := ctx.Session(false)
		if err != nil || sess == nil {
			return nil, false, err
		}
		if s == FromFlash {
			v, ok := sess.Flash().Get(name)
			return v, ok, nil
		}
		v, ok := sess.Get(name)
		return v, ok, nil
	}
	return nil, false, nil
}

// blank reports an empty text value, such as ?page=
func blank(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case []string:
		return len(x) == 0 || (len(x) == 1 && x[0] == "")
	}
	return false
}

// textual reports whether an empty string is a meaningful value of t
func textual(t reflect.Type) bool {
	if t.Implements(optionalType) {
		t = reflect.Zero(t).Interface().(optional).optionalElem()
	}
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Kind() == reflect.String
}

func missing(name string, sources []Source) *Error {
	where := make([]string, len(sources))
	for i, s := range sources {
		where[i] = s.String()
	}
	return ErrBadRequest(fmt.Sprintf("missing %s parameter %s", strings.Join(where, "/"), name), ErrMissing)
}

// BodyAs decodes the request body into T. JSON is the default; form
// bodies decode into structs and text bodies into strings.
func BodyAs[T any](ctx Context, n Nullability) (T, error) {
	var out T
	target := reflect.TypeFor[T]()

	data, err := ctx.Body()
	if err != nil {
		return out, ErrBadRequest("cannot read request body", err)
	}
	mediaType := requestMediaType(ctx)
	form := mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"

	if len(bytes.TrimSpace(data)) == 0 && !form {
		if n == Required && !target.Implements(optionalType) {
			return out, ErrBadRequest("request body is required", ErrMissing)
		}
		return out, nil
	}

	switch {
	case form:
		values, err := ctx.Form()
		if err != nil {
			return out, ErrBadRequest("malformed form", err)
		}
		if out, err = As[T](flatten(values)); err != nil {
			return out, ErrBadRequest("malformed form", err)
		}
		return out, nil
	case strings.HasPrefix(mediaType, "text/") && textual(target):
		if out, err = As[T](string(data)); err != nil {
			return out, ErrBadRequest("malformed request body", err)
		}
		return out, nil
	case mediaType != "" && !isJSON(mediaType):
		return out, ErrUnsupportedMediaType(mediaType)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, ErrBadRequest("malformed request body", err)
	}
	return out, nil
}

func requestMediaType(ctx Context) string {
	header := ctx.Header("Content-Type")
	if len(header) == 0 {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header[0])
	if err != nil {
		return ""
	}
	return mediaType
}

// BodyOf returns the raw body
func BodyOf(ctx Context) (Body, error) {
	data, err := ctx.Body()
	if err != nil {
		return Body{}, ErrBadRequest("cannot read request body", err)
	}
	contentType := ""
	if header := ctx.Header("Content-Type"); len(header) > 0 {
		contentType = header[0]
	}
	return Body{ContentType: contentType, Data: data}, nil
}

// FormdataOf returns the form values
func FormdataOf(ctx Context) (Formdata, error) {
	form, err := ctx.Form()
	if err != nil {
		return nil, ErrBadRequest("malformed form", err)
	}
	if form == nil {
		form = Formdata{}
	}
	return form, nil
}

// FlashOf returns the flash values of the session, empty without one
func FlashOf(ctx Context) (FlashMap, error) {
	sess, err := ctx.Session(false)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return FlashMap{}, nil
	}
	return sess.Flash(), nil
}

// SessionOf returns the session, creating it when the request has none
func SessionOf(ctx Context) (Session, error) {
	return ctx.Session(true)
}

// SessionOrNil returns the existing session or nil
func SessionOrNil(ctx Context) Session {
	sess, err := ctx.Session(false)
	if err != nil {
		return nil
	}
	return sess
}

// FileOf returns the uploaded file of a multipart field
func FileOf(ctx Context, name string) (FileUpload, error) {
	file, ok, err := ctx.File(name)
	if err != nil {
		return FileUpload{}, ErrBadRequest("malformed multipart form", err)
	}
	if !ok {
		return FileUpload{}, ErrBadRequest("missing file "+name, ErrMissing)
	}
	return file, nil
}

// FilePathOf copies the uploaded file of a multipart field to a temporary
// file and returns its path
func FilePathOf(ctx Context, name string) (FilePath, error) {
	file, err := FileOf(ctx, name)
	if err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", ErrInternal("cannot open upload "+name, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "mvc-upload-*"+filepath.Ext(file.Filename))
	if err != nil {
		return "", ErrInternal("cannot store upload "+name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", ErrInternal("cannot store upload "+name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", ErrInternal("cannot store upload "+name, err)
	}
	return FilePath(dst.Name()), nil
}
