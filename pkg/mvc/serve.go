package mvc

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"
)

// Outcome is what an adapter writes back for one request
type Outcome struct {
	Status StatusCode
	// Body is nil for status only responses
	Body any
	// ContentType is the negotiated media type of Body
	ContentType string
	Err         error
}

const jsonMediaType = "application/json"

// Serve runs h for ctx and decides the response. It rejects request bodies
// the route does not consume, runs h on the route's dispatch queue and
// turns panics into 500 responses.
func Serve(ctx Context, env *Environment, h Handler) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = failure(ErrInternal("handler panicked", fmt.Errorf("%v", p)))
		}
	}()

	if err := checkConsumes(ctx); err != nil {
		return failure(err)
	}

	var dispatcher *Dispatcher
	if env != nil {
		dispatcher = env.Dispatcher
	}
	result, err := dispatcher.Run(ctx, h)
	if err != nil {
		return failure(err)
	}

	switch v := result.(type) {
	case nil:
		return Outcome{Status: ctx.ResponseCode()}
	case StatusCode:
		return Outcome{Status: v}
	}
	if isNil(result) {
		return Outcome{Status: ctx.ResponseCode()}
	}
	return Outcome{Status: ctx.ResponseCode(), Body: result, ContentType: produced(ctx.Route(), result)}
}

func failure(err error) Outcome {
	body := errorBody(err)
	return Outcome{Status: body.Status, Body: body, ContentType: jsonMediaType, Err: err}
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// produced picks the first declared media type the body can be written
// as. Strings and byte slices can be written as anything, other values
// only as JSON.
func produced(route *Route, body any) string {
	var produces []string
	if route != nil {
		produces = route.Produces()
	}
	_, raw := rawBody(body)
	for _, mediaType := range produces {
		if raw || isJSON(mediaType) {
			return mediaType
		}
	}
	return jsonMediaType
}

func rawBody(body any) ([]byte, bool) {
	switch b := body.(type) {
	case string:
		return []byte(b), true
	case []byte:
		return b, true
	case Body:
		return b.Data, true
	}
	return nil, false
}

func isJSON(mediaType string) bool {
	base, _, _ := strings.Cut(mediaType, ";")
	base = strings.TrimSpace(base)
	return base == jsonMediaType || strings.HasSuffix(base, "+json")
}

// Encode serializes the body for its content type. Status only outcomes
// return no data.
func (o Outcome) Encode() (contentType string, data []byte, err error) {
	if o.Body == nil {
		return "", nil, nil
	}
	if raw, ok := rawBody(o.Body); ok && !isJSON(o.ContentType) {
		return o.ContentType, raw, nil
	}
	data, err = json.Marshal(o.Body)
	if err != nil {
		return "", nil, err
	}
	contentType = o.ContentType
	if contentType == "" {
		contentType = jsonMediaType
	}
	return contentType, data, nil
}

// WriteTo writes the outcome to a net/http response
func (o Outcome) WriteTo(w http.ResponseWriter) error {
	contentType, data, err := o.Encode()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(o.Status.Int())
	if len(data) > 0 {
		_, err = w.Write(data)
	}
	return err
}

// checkConsumes rejects a request whose Content-Type is not one of the
// media types the route consumes. Requests without a Content-Type pass.
func checkConsumes(ctx Context) error {
	route := ctx.Route()
	if route == nil || len(route.Consumes()) == 0 {
		return nil
	}
	header := ctx.Header("Content-Type")
	if len(header) == 0 || header[0] == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header[0])
	if err != nil {
		return ErrBadRequest("malformed Content-Type", err)
	}
	for _, accepted := range route.Consumes() {
		if mediaMatches(accepted, mediaType) {
			return nil
		}
	}
	return ErrUnsupportedMediaType(mediaType)
}

// mediaMatches supports */* and type/* ranges
func mediaMatches(accepted, mediaType string) bool {
	accepted, _, _ = strings.Cut(accepted, ";")
	accepted = strings.ToLower(strings.TrimSpace(accepted))
	if accepted == "*/*" || accepted == mediaType {
		return true
	}
	if prefix, ok := strings.CutSuffix(accepted, "/*"); ok {
		return strings.HasPrefix(mediaType, prefix+"/")
	}
	return false
}
