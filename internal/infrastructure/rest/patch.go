package rest

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// patchFields records which keys a PATCH body carried and which of them
// were explicitly null.
type patchFields map[string]json.RawMessage

func (p patchFields) isNull(key string) bool {
	raw, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// bindPatch binds a partial update into req and reports the keys present
// in the body, so that an omitted field and an explicit null can differ.
func bindPatch(c *gin.Context, req any) (patchFields, error) {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		return nil, bindError(err)
	}
	var fields patchFields
	if body, ok := c.Get(gin.BodyBytesKey); ok {
		if err := json.Unmarshal(body.([]byte), &fields); err != nil {
			return nil, bindError(err)
		}
	}
	return fields, nil
}
