package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	ContentType       = "text/xml; charset=utf-8"
)

// Message is anything that can serialize itself as a SOAP message.
type Message interface {
	WriteTo(w io.Writer) (int64, error)
}

// Envelope is a SOAP 1.1 message. Header and Body hold the raw inner XML of the respective elements.
type Envelope struct {
	Header []byte
	Body   []byte
	Fault  *Fault
}

// Fault is a SOAP 1.1 fault. Detail holds the raw inner XML of the detail element.
type Fault struct {
	Code   string
	String string
	Actor  string
	Detail []byte
}

// NewEnvelope marshals payload as the body of a new envelope.
func NewEnvelope(payload any) (*Envelope, error) {
	if payload == nil {
		return &Envelope{}, nil
	}
	body, err := xml.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal soap body: %w", err)
	}
	return &Envelope{Body: body}, nil
}

// WriteTo writes the serialized envelope to w.
func (e *Envelope) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<soapenv:Envelope xmlns:soapenv="` + EnvelopeNamespace + `">`)
	if len(e.Header) > 0 {
		buf.WriteString("<soapenv:Header>")
		buf.Write(e.Header)
		buf.WriteString("</soapenv:Header>")
	}
	buf.WriteString("<soapenv:Body>")
	if e.Fault != nil {
		e.Fault.write(&buf)
	} else {
		buf.Write(e.Body)
	}
	buf.WriteString("</soapenv:Body></soapenv:Envelope>")
	return buf.WriteTo(w)
}

// UnmarshalBody decodes the first element of the body into v.
func (e *Envelope) UnmarshalBody(v any) error {
	if len(bytes.TrimSpace(e.Body)) == 0 {
		return fmt.Errorf("soap body is empty")
	}
	if err := xml.Unmarshal(e.Body, v); err != nil {
		return fmt.Errorf("unmarshal soap body: %w", err)
	}
	return nil
}

func (f *Fault) write(buf *bytes.Buffer) {
	buf.WriteString("<soapenv:Fault>")
	writeElement(buf, "faultcode", f.Code)
	writeElement(buf, "faultstring", f.String)
	if f.Actor != "" {
		writeElement(buf, "faultactor", f.Actor)
	}
	if len(f.Detail) > 0 {
		buf.WriteString("<detail>")
		buf.Write(f.Detail)
		buf.WriteString("</detail>")
	}
	buf.WriteString("</soapenv:Fault>")
}

func writeElement(buf *bytes.Buffer, name, text string) {
	buf.WriteString("<" + name + ">")
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString("</" + name + ">")
}

type rawXML struct {
	Inner []byte `xml:",innerxml"`
}

type wireFault struct {
	Code   string  `xml:"faultcode"`
	String string  `xml:"faultstring"`
	Actor  string  `xml:"faultactor"`
	Detail *rawXML `xml:"detail"`
}

type wireEnvelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Header  *rawXML  `xml:"http://schemas.xmlsoap.org/soap/envelope/ Header"`
	Body    struct {
		Inner []byte     `xml:",innerxml"`
		Fault *wireFault `xml:"http://schemas.xmlsoap.org/soap/envelope/ Fault"`
	} `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

// ReadEnvelope decodes a SOAP 1.1 envelope from r.
func ReadEnvelope(r io.Reader) (*Envelope, error) {
	var w wireEnvelope
	if err := xml.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode soap envelope: %w", err)
	}
	env := &Envelope{}
	if w.Header != nil {
		env.Header = w.Header.Inner
	}
	if w.Body.Fault != nil {
		env.Fault = &Fault{
			Code:   w.Body.Fault.Code,
			String: w.Body.Fault.String,
			Actor:  w.Body.Fault.Actor,
		}
		if w.Body.Fault.Detail != nil {
			env.Fault.Detail = w.Body.Fault.Detail.Inner
		}
		return env, nil
	}
	env.Body = w.Body.Inner
	return env, nil
}
