package mvc

import (
	"reflect"
	"strings"
)

// Method identifies the controller method behind a route
type Method struct {
	Owner  reflect.Type
	Name   string
	Params []*Type
}

// MethodOf describes the method name of T taking params
func MethodOf[T any](name string, params ...*Type) *Method {
	return &Method{Owner: reflect.TypeFor[T](), Name: name, Params: params}
}

// Func looks the method up on its owner
func (m *Method) Func() (reflect.Method, bool) {
	return m.Owner.MethodByName(m.Name)
}

// String returns (*pkg.Controller).Name(T1,T2)
func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	return "(" + m.Owner.String() + ")." + m.Name + "(" + strings.Join(params, ",") + ")"
}
