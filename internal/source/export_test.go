package source

import "golang.org/x/text/encoding/charmap"

func charmapDecode(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(out), err
}
