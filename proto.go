// Protocols for marshaling and unmarshaling typed key/value pairs.
//
// The engine itself only ever moves plain strings through emit/get;
// parsing input and formatting output is left to the job. These helpers
// are optional conveniences a job author may use inside their own
// MapperFunc/ReducerFunc bodies to get typed values in and out of those
// strings; Run never calls them.
package dmrgo

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// KeyValue is a marshaled key/value pair, as produced by an MRProtocol.
type KeyValue struct {
	Key   string
	Value string
}

// MRProtocol marshals and unmarshals typed key/value pairs to and from
// the plain strings the engine carries. Jobs may define their own.
type MRProtocol interface {
	// UnmarshalKVs populates k (a pointer to the key's destination type)
	// and vs (a pointer to a slice of the values' destination type) from
	// the wire-format key and its accumulated values.
	UnmarshalKVs(key string, values []string, k interface{}, vs interface{})

	// MarshalKV turns a typed key/value pair into its wire KeyValue.
	MarshalKV(key interface{}, value interface{}) *KeyValue
}

// JSONProtocol marshals and unmarshals keys and values as JSON.
type JSONProtocol struct{}

// UnmarshalKVs implements MRProtocol.
func (p *JSONProtocol) UnmarshalKVs(key string, values []string, k interface{}, vs interface{}) {
	json.Unmarshal([]byte(key), k)

	vsPtrValue := reflect.ValueOf(vs)
	vsType := reflect.TypeOf(vs).Elem()

	v := reflect.New(vsType).Elem()
	e := reflect.New(vsType.Elem())

	for _, js := range values {
		if err := json.Unmarshal([]byte(js), e.Interface()); err != nil {
			continue
		}
		v = reflect.Append(v, e.Elem())
	}

	vsPtrValue.Elem().Set(v)
}

// MarshalKV implements MRProtocol.
func (p *JSONProtocol) MarshalKV(key interface{}, value interface{}) *KeyValue {
	k, _ := json.Marshal(key)
	v, _ := json.Marshal(value)
	return &KeyValue{string(k), string(v)}
}

// TSVProtocol marshals and unmarshals keys as a single scanned token and
// values as tab-separated struct fields, array elements, or plain
// strings.
type TSVProtocol struct{}

// MarshalKV implements MRProtocol.
func (p *TSVProtocol) MarshalKV(key interface{}, value interface{}) *KeyValue {
	k := primitiveToString(reflect.ValueOf(key))

	var vs []string

	vType := reflect.TypeOf(value)
	vVal := reflect.ValueOf(value)

	switch vType.Kind() {
	case reflect.Struct:
		for i := 0; i < vType.NumField(); i++ {
			vs = append(vs, primitiveToString(vVal.Field(i)))
		}
	case reflect.String:
		vs = append(vs, vVal.String())
	case reflect.Array, reflect.Slice:
		for i := 0; i < vVal.Len(); i++ {
			vs = append(vs, fmt.Sprint(vVal.Index(i).Interface()))
		}
	}

	return &KeyValue{k, strings.Join(vs, "\t")}
}

// UnmarshalKVs implements MRProtocol.
func (p *TSVProtocol) UnmarshalKVs(key string, values []string, k interface{}, vs interface{}) {
	fmt.Sscan(key, k)

	vsPtrValue := reflect.ValueOf(vs)
	vsType := reflect.TypeOf(vs).Elem()
	vType := vsType.Elem()

	v := reflect.New(vsType).Elem()

	for _, s := range values {
		fields := strings.Split(s, "\t")
		e := reflect.New(vsType.Elem())

		switch vType.Kind() {
		case reflect.Struct:
			for i := 0; i < vType.NumField() && i < len(fields); i++ {
				fmt.Sscan(fields[i], e.Elem().Field(i).Addr().Interface())
			}
		case reflect.Array:
			for i := 0; i < vType.Len() && i < len(fields); i++ {
				fmt.Sscan(fields[i], e.Elem().Index(i).Addr().Interface())
			}
		case reflect.String:
			e.Elem().SetString(s)
		}

		v = reflect.Append(v, e.Elem())
	}

	vsPtrValue.Elem().Set(v)
}

func primitiveToString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "1"
		}
		return "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', 5, 64)
	case reflect.String:
		return v.String()
	}

	return "(unknown)"
}
