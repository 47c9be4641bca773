package screen

import "encoding/base64"

// base64Decode decodes an OSC 52 clipboard payload. Standard-library
// base64 is used here deliberately: OSC 52's payload encoding is a fixed
// wire-format detail, not a domain concern any pack library addresses.
func base64Decode(data []byte) ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(data))
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
