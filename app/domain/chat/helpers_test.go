package chat

import (
	"encoding/json"
	"io"
	"net/http"
)

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func readAll(r *http.Request) ([]byte, error) {
	return io.ReadAll(r.Body)
}
