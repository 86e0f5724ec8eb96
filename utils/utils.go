package utils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
)

// Unmarshal fills a fixed layout on disk structure from a little endian byte
// buffer. Field widths are taken from the struct definition, string fields
// named Signature consume four bytes.
func Unmarshal(data []byte, v interface{}) error {
	idx := 0
	structValPtr := reflect.ValueOf(v)
	structType := reflect.TypeOf(v)
	if structType.Elem().Kind() != reflect.Struct {
		return errors.New("must be a struct")
	}
	for i := 0; i < structValPtr.Elem().NumField(); i++ {
		field := structValPtr.Elem().Field(i) //StructField type
		switch field.Kind() {
		case reflect.String:
			name := structType.Elem().Field(i).Name
			if name == "Signature" {
				field.SetString(string(data[idx : idx+4]))
				idx += 4
			}
		case reflect.Array:
			width := field.Len()
			reflect.Copy(field, reflect.ValueOf(data[idx:idx+width]))
			idx += width
		case reflect.Uint8:
			field.SetUint(uint64(data[idx]))
			idx += 1
		case reflect.Int8:
			field.SetInt(int64(int8(data[idx])))
			idx += 1
		case reflect.Uint16:
			var temp uint16
			binary.Read(bytes.NewBuffer(data[idx:idx+2]), binary.LittleEndian, &temp)
			field.SetUint(uint64(temp))
			idx += 2
		case reflect.Uint32:
			var temp uint32
			binary.Read(bytes.NewBuffer(data[idx:idx+4]), binary.LittleEndian, &temp)
			field.SetUint(uint64(temp))
			idx += 4
		case reflect.Uint64:
			var temp uint64
			binary.Read(bytes.NewBuffer(data[idx:idx+8]), binary.LittleEndian, &temp)
			field.SetUint(temp)
			idx += 8
		}

	}
	return nil
}
