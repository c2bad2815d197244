package looprecord

import "encoding/json"

func marshalForTest(d *Document) (string, error) {
	b, err := json.Marshal(d)
	return string(b), err
}
