package output

import (
	"fmt"
	"io"
)

// RawFormatter prints bare values, one per line. Nil prints an empty line.
type RawFormatter struct{}

// Format writes data. Non-Reply data is printed with %v.
func (f *RawFormatter) Format(w io.Writer, data any) error {
	r, ok := data.(Reply)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
	return writeRaw(w, r)
}

func writeRaw(w io.Writer, r Reply) error {
	switch r.Type {
	case TypeArray:
		elems, _ := r.Value.([]Reply)
		for _, e := range elems {
			if err := writeRaw(w, e); err != nil {
				return err
			}
		}
		return nil
	case TypeNil:
		_, err := fmt.Fprintln(w)
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", r.Value)
		return err
	}
}
