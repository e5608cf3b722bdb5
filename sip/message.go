package sip

import (
	"io"
	"strings"
)

// Message is the spec §3.3 SIP-message sum (Request | Response), modeled
// as an interface the way the teacher's sip/message.go does: Request and
// Response share every header/body/transport accessor, differing only in
// their start-line shape. Header accessors return a single nillable
// pointer (not the (value, bool) pair HeaderList itself uses) to match the
// teacher's call sites (sip.go's dialog-ID helpers).
type Message interface {
	// StartLine returns the Request-Line or Status-Line, without CRLF.
	StartLine() string
	StartLineWrite(w io.StringWriter)

	String() string
	StringWrite(w io.StringWriter)
	// Short returns a short one-line description, for logging.
	Short() string

	Headers() []Header
	GetHeaders(name string) []Header
	GetHeader(name string) Header
	PrependHeader(header ...Header)
	AppendHeader(header Header)
	AppendHeaderAfter(header Header, name string)
	RemoveHeader(name string)
	ReplaceHeader(header Header)

	CallID() *CallIDHeader
	Via() *ViaHeader
	AllVia() []*ViaHeader
	From() *FromHeader
	To() *ToHeader
	CSeq() *CSeqHeader
	ContentLength() *ContentLengthHeader
	ContentType() *ContentTypeHeader
	Route() []*RouteHeader
	RecordRoute() []*RecordRouteHeader

	Body() []byte
	SetBody(body []byte)

	SIPVersion() Version

	Transport() string
	SetTransport(tp string)
	Source() string
	SetSource(src string)
	Destination() string
	SetDestination(dest string)
}

// messageData is the shared field set embedded by Request and Response,
// grounded on the teacher's MessageData (sip/message.go): header list,
// body, and the transport-layer bookkeeping (source/destination/transport
// name) a binder stamps on an inbound message before handing it to routing
// logic external to this core.
type messageData struct {
	headers HeaderList
	version Version
	body    []byte

	tp   string
	src  string
	dest string

	// raw, when non-nil, is the exact input this message was parsed from
	// (spec §8.1 rule 1's "preserved" rendering mode): Serialize(msg,
	// Preserved) returns it byte-for-byte instead of re-deriving the wire
	// form from the parsed model. A message built programmatically (never
	// parsed) has raw == nil, and Preserved rendering falls back to
	// Normalized.
	raw []byte
}

func (m *messageData) Headers() []Header                  { return m.headers.Headers() }
func (m *messageData) GetHeaders(name string) []Header    { return m.headers.GetHeaders(name) }
func (m *messageData) GetHeader(name string) Header       { return m.headers.GetHeader(name) }
func (m *messageData) PrependHeader(header ...Header)     { m.headers.PrependHeader(header...) }
func (m *messageData) AppendHeader(header Header)          { m.headers.Add(header) }
func (m *messageData) RemoveHeader(name string)            { m.headers.RemoveHeader(name) }
func (m *messageData) ReplaceHeader(header Header)          { m.headers.ReplaceHeader(header) }

// AppendHeaderAfter inserts header immediately after the first header
// named name (case-insensitive), or at the end if none matches — used by a
// proxy forwarding a request to insert its own Via under the topmost one
// (spec §6.1).
func (m *messageData) AppendHeaderAfter(header Header, name string) {
	nameLower := HeaderToLower(name)
	order := m.headers.Headers()
	for i, h := range order {
		if HeaderToLower(h.Name()) == nameLower {
			newOrder := make([]Header, 0, len(order)+1)
			newOrder = append(newOrder, order[:i+1]...)
			newOrder = append(newOrder, header)
			newOrder = append(newOrder, order[i+1:]...)
			m.headers = HeaderList{}
			for _, h := range newOrder {
				m.headers.Add(h)
			}
			return
		}
	}
	m.headers.Add(header)
}

func (m *messageData) CallID() *CallIDHeader {
	h, ok := m.headers.CallID()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) Via() *ViaHeader {
	h, ok := m.headers.Via()
	if !ok {
		return nil
	}
	return h
}
func (m *messageData) AllVia() []*ViaHeader { return m.headers.AllVia() }

func (m *messageData) From() *FromHeader {
	h, ok := m.headers.From()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) To() *ToHeader {
	h, ok := m.headers.To()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) CSeq() *CSeqHeader {
	h, ok := m.headers.CSeq()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) ContentLength() *ContentLengthHeader {
	h, ok := m.headers.ContentLength()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) ContentType() *ContentTypeHeader {
	h, ok := m.headers.ContentType()
	if !ok {
		return nil
	}
	return h
}

func (m *messageData) Route() []*RouteHeader             { return m.headers.Route() }
func (m *messageData) RecordRoute() []*RecordRouteHeader { return m.headers.RecordRoute() }

func (m *messageData) Body() []byte { return m.body }

// SetBody replaces the body and keeps Content-Length in sync, the way the
// teacher's MessageData.SetBody does (sip/message.go) — every caller that
// mutates a message's body gets a correct Content-Length for free.
func (m *messageData) SetBody(body []byte) {
	m.body = body
	m.raw = nil
	length := &ContentLengthHeader{N: uint32(len(body))}
	if existing, ok := m.headers.ContentLength(); ok && existing.N == length.N {
		return
	}
	m.headers.ReplaceHeader(length)
}

func (m *messageData) SIPVersion() Version { return m.version }

func (m *messageData) Transport() string      { return m.tp }
func (m *messageData) SetTransport(tp string) { m.tp = tp }
func (m *messageData) Source() string         { return m.src }
func (m *messageData) SetSource(src string)   { m.src = src }
func (m *messageData) Destination() string    { return m.dest }
func (m *messageData) SetDestination(dest string) { m.dest = dest }

// Request is the spec §3.3 Request variant: method, Request-URI, version,
// plus the shared header/body/transport fields.
type Request struct {
	messageData
	Method     Method
	RequestURI Uri
}

// NewRequest builds a Request for programmatic construction (spec §3.2
// "Lifecycle": values are also built by a builder, not only by the
// parser).
func NewRequest(method Method, uri Uri) *Request {
	r := &Request{Method: method, RequestURI: uri}
	r.version = DefaultVersion
	return r
}

func (r *Request) StartLine() string {
	var b strings.Builder
	r.StartLineWrite(&b)
	return b.String()
}

func (r *Request) StartLineWrite(w io.StringWriter) {
	w.WriteString(string(r.Method))
	w.WriteString(" ")
	r.RequestURI.StringWrite(w)
	w.WriteString(" ")
	w.WriteString(r.version.String())
}

func (r *Request) String() string {
	var b strings.Builder
	r.StringWrite(&b)
	return b.String()
}

func (r *Request) StringWrite(w io.StringWriter) {
	writeMessage(r, &r.messageData, w)
}

// Short returns "METHOD sip:uri" for logging, mirroring the teacher's
// Request.Short (sip/request.go).
func (r *Request) Short() string {
	var b strings.Builder
	b.WriteString(string(r.Method))
	b.WriteString(" ")
	r.RequestURI.StringWrite(&b)
	if cseq, ok := r.headers.CSeq(); ok {
		b.WriteString(" (CSeq: ")
		b.WriteString(cseq.Value())
		b.WriteString(")")
	}
	return b.String()
}

// IsAck/IsInvite/IsCancel are the handful of method checks a proxy
// forwarding loop needs without importing the Method constants directly.
func (r *Request) IsAck() bool    { return r.Method == ACK }
func (r *Request) IsInvite() bool { return r.Method == INVITE }
func (r *Request) IsCancel() bool { return r.Method == CANCEL }

// Response is the spec §3.3 Response variant: version, reason (status code
// + phrase), plus the shared header/body/transport fields.
type Response struct {
	messageData
	Reason Reason
}

// NewResponse builds a Response for programmatic construction.
func NewResponse(status StatusCode, phrase string) *Response {
	r := &Response{Reason: Reason{Status: status, Phrase: phrase}}
	r.version = DefaultVersion
	return r
}

func (r *Response) StatusCode() StatusCode { return r.Reason.Status }

func (r *Response) StartLine() string {
	var b strings.Builder
	r.StartLineWrite(&b)
	return b.String()
}

func (r *Response) StartLineWrite(w io.StringWriter) {
	w.WriteString(r.version.String())
	w.WriteString(" ")
	w.WriteString(r.Reason.Status.String())
	w.WriteString(" ")
	w.WriteString(r.Reason.Phrase)
}

func (r *Response) String() string {
	var b strings.Builder
	r.StringWrite(&b)
	return b.String()
}

func (r *Response) StringWrite(w io.StringWriter) {
	writeMessage(r, &r.messageData, w)
}

// Short returns "SIP/2.0 200 OK" for logging, mirroring the teacher's
// Response.Short (sip/response.go).
func (r *Response) Short() string {
	return r.StartLine()
}

func (r *Response) IsProvisional() bool  { return r.Reason.Status.IsProvisional() }
func (r *Response) IsSuccess() bool      { return r.Reason.Status.IsSuccess() }
func (r *Response) IsRedirection() bool  { return r.Reason.Status.IsRedirection() }
func (r *Response) IsClientError() bool  { return r.Reason.Status.IsClientError() }
func (r *Response) IsServerError() bool  { return r.Reason.Status.IsServerError() }
func (r *Response) IsGlobalFailure() bool { return r.Reason.Status.IsGlobalFailure() }

// startLiner is implemented by both Request and Response so writeMessage
// can render start-line + headers + CRLF CRLF + body identically for both
// (spec §4.5 "Render protocol").
type startLiner interface {
	StartLineWrite(w io.StringWriter)
}

func writeMessage(sl startLiner, m *messageData, w io.StringWriter) {
	sl.StartLineWrite(w)
	w.WriteString("\r\n")
	for _, h := range m.headers.Headers() {
		h.StringWrite(w)
		w.WriteString("\r\n")
	}
	w.WriteString("\r\n")
	if len(m.body) > 0 {
		w.WriteString(string(m.body))
	}
}
