package soap

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type echoRequest struct {
	XMLName xml.Name `xml:"urn:echo Echo"`
	Text    string   `xml:"Text"`
}

type echoResponse struct {
	XMLName xml.Name `xml:"urn:echo EchoResponse"`
	Text    string   `xml:"Text"`
}

func TestEnvelope_WriteAndRead(t *testing.T) {
	env, err := NewEnvelope(echoRequest{Text: "hello <world>"})
	assert.NoError(t, err)
	env.Header = []byte(`<auth xmlns="urn:auth">token</auth>`)

	var buf bytes.Buffer
	_, err = env.WriteTo(&buf)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))
	assert.Contains(t, buf.String(), `<soapenv:Envelope xmlns:soapenv="`+EnvelopeNamespace+`">`)

	decoded, err := ReadEnvelope(&buf)
	assert.NoError(t, err)
	assert.Nil(t, decoded.Fault)
	assert.Equal(t, `<auth xmlns="urn:auth">token</auth>`, string(decoded.Header))

	var got echoRequest
	assert.NoError(t, decoded.UnmarshalBody(&got))
	assert.Equal(t, "hello <world>", got.Text)
}

func TestEnvelope_FaultRoundTrip(t *testing.T) {
	env := &Envelope{Fault: &Fault{
		Code:   "soapenv:Server",
		String: "backend & friends unavailable",
		Detail: []byte(`<reason>maintenance</reason>`),
	}}

	var buf bytes.Buffer
	_, err := env.WriteTo(&buf)
	assert.NoError(t, err)

	decoded, err := ReadEnvelope(&buf)
	assert.NoError(t, err)
	if assert.NotNil(t, decoded.Fault) {
		assert.Equal(t, "soapenv:Server", decoded.Fault.Code)
		assert.Equal(t, "backend & friends unavailable", decoded.Fault.String)
		assert.Empty(t, decoded.Fault.Actor)
		assert.Equal(t, `<reason>maintenance</reason>`, string(decoded.Fault.Detail))
	}
}

func TestReadEnvelope_RejectsForeignDocuments(t *testing.T) {
	_, err := ReadEnvelope(strings.NewReader(`<html><body>oops</body></html>`))
	assert.Error(t, err)

	_, err = ReadEnvelope(strings.NewReader(`service unavailable`))
	assert.Error(t, err)
}

func TestEnvelope_UnmarshalEmptyBody(t *testing.T) {
	env, err := NewEnvelope(nil)
	assert.NoError(t, err)

	var got echoResponse
	assert.EqualError(t, env.UnmarshalBody(&got), "soap body is empty")
}
