package sip

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// CallIDHeader is the Call-ID header (spec §4.4.3): an opaque identifier,
// compared byte-exact.
type CallIDHeader struct {
	Text string
}

func (h *CallIDHeader) Name() string  { return "Call-ID" }
func (h *CallIDHeader) Value() string { return h.Text }
func (h *CallIDHeader) String() string { return "Call-ID: " + h.Text }
func (h *CallIDHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Call-ID: ")
	w.WriteString(h.Text)
}
func (h *CallIDHeader) headerClone() Header {
	if h == nil {
		return (*CallIDHeader)(nil)
	}
	return &CallIDHeader{Text: h.Text}
}
func (h *CallIDHeader) Equal(o *CallIDHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Text == o.Text
}

func parseCallIDHeader(value string) (Header, error) {
	v := trimWS(value)
	if v == "" {
		return nil, newParseError(ErrInvalidHeader, "Call-ID", 0, "empty Call-ID")
	}
	return &CallIDHeader{Text: v}, nil
}

// CSeqHeader is the CSeq header (spec §4.4.3).
type CSeqHeader struct {
	Sequence uint32
	Method   Method
}

func (h *CSeqHeader) Name() string { return "CSeq" }
func (h *CSeqHeader) Value() string {
	return strconv.FormatUint(uint64(h.Sequence), 10) + " " + h.Method.String()
}
func (h *CSeqHeader) String() string { return "CSeq: " + h.Value() }
func (h *CSeqHeader) StringWrite(w io.StringWriter) {
	w.WriteString("CSeq: ")
	w.WriteString(h.Value())
}
func (h *CSeqHeader) headerClone() Header {
	if h == nil {
		return (*CSeqHeader)(nil)
	}
	return &CSeqHeader{Sequence: h.Sequence, Method: h.Method}
}
func (h *CSeqHeader) Equal(o *CSeqHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Sequence == o.Sequence && h.Method.Equal(o.Method)
}

func parseCSeqHeader(value string) (Header, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return nil, newParseError(ErrInvalidHeader, "CSeq", 0, value)
	}
	n, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil || n > 1<<31-1 {
		return nil, newParseError(ErrInvalidHeader, "CSeq", 0, fields[0])
	}
	m, err := parseMethod(fields[1])
	if err != nil {
		return nil, err
	}
	return &CSeqHeader{Sequence: uint32(n), Method: m}, nil
}

// ContentLengthHeader is the Content-Length header (spec §4.4.3).
type ContentLengthHeader struct {
	N uint32
}

func (h *ContentLengthHeader) Name() string  { return "Content-Length" }
func (h *ContentLengthHeader) Value() string { return strconv.FormatUint(uint64(h.N), 10) }
func (h *ContentLengthHeader) String() string { return "Content-Length: " + h.Value() }
func (h *ContentLengthHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Content-Length: ")
	w.WriteString(h.Value())
}
func (h *ContentLengthHeader) headerClone() Header {
	if h == nil {
		return (*ContentLengthHeader)(nil)
	}
	return &ContentLengthHeader{N: h.N}
}

func parseContentLengthHeader(value string) (Header, error) {
	n, err := parseClampedUint(value, 1<<32-1)
	if err != nil {
		return nil, newParseError(ErrInvalidHeader, "Content-Length", 0, value)
	}
	return &ContentLengthHeader{N: uint32(n)}, nil
}

// ContentTypeHeader is the Content-Type header (spec §4.4.3): a media type
// plus generic parameters (most commonly "charset").
type ContentTypeHeader struct {
	MediaType string // "type/subtype", lowercase not enforced on storage
	Params    HeaderParameters
}

func (h *ContentTypeHeader) Name() string { return "Content-Type" }
func (h *ContentTypeHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ContentTypeHeader) String() string { return "Content-Type: " + h.Value() }
func (h *ContentTypeHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Content-Type: ")
	h.ValueStringWrite(w)
}
func (h *ContentTypeHeader) ValueStringWrite(w io.StringWriter) {
	w.WriteString(h.MediaType)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ContentTypeHeader) headerClone() Header {
	if h == nil {
		return (*ContentTypeHeader)(nil)
	}
	return &ContentTypeHeader{MediaType: h.MediaType, Params: h.Params.Clone()}
}
func (h *ContentTypeHeader) Equal(o *ContentTypeHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return strings.EqualFold(h.MediaType, o.MediaType) && h.Params.Equal(o.Params)
}

func parseContentTypeHeader(value string) (Header, error) {
	i := 0
	media, next := lexMediaType(value, i)
	if media == "" {
		return nil, newParseError(ErrInvalidHeader, "Content-Type", 0, value)
	}
	i = next
	params := NewHeaderParameters()
	i = skipWS(value, i)
	var err error
	if i < len(value) && value[i] == ';' {
		i++
		if i, err = parseParamList(value, i, ';', "", &params); err != nil {
			return nil, err
		}
	}
	return &ContentTypeHeader{MediaType: media, Params: params}, nil
}

func lexMediaType(s string, i int) (string, int) {
	start := i
	for i < len(s) && s[i] != ';' && !isWSP(s[i]) {
		i++
	}
	return strings.TrimSpace(s[start:i]), i
}

// ContentDispositionHeader is the Content-Disposition header (spec §4.4.3).
type ContentDispositionHeader struct {
	DispositionType EnumToken
	Params          HeaderParameters
}

func (h *ContentDispositionHeader) Name() string { return "Content-Disposition" }
func (h *ContentDispositionHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ContentDispositionHeader) String() string { return "Content-Disposition: " + h.Value() }
func (h *ContentDispositionHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Content-Disposition: ")
	h.ValueStringWrite(w)
}
func (h *ContentDispositionHeader) ValueStringWrite(w io.StringWriter) {
	w.WriteString(h.DispositionType.String())
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ContentDispositionHeader) headerClone() Header {
	if h == nil {
		return (*ContentDispositionHeader)(nil)
	}
	return &ContentDispositionHeader{DispositionType: h.DispositionType, Params: h.Params.Clone()}
}
func (h *ContentDispositionHeader) HandlingRequired() bool {
	v, ok := h.Params.Get("handling")
	return ok && strings.EqualFold(v, HandlingRequired)
}

func parseContentDispositionHeader(value string) (Header, error) {
	i := skipWS(value, 0)
	dtype, next := lexToken(value, i)
	if dtype == "" {
		return nil, newParseError(ErrInvalidHeader, "Content-Disposition", i, value)
	}
	i = next
	params := NewHeaderParameters()
	i = skipWS(value, i)
	var err error
	if i < len(value) && value[i] == ';' {
		i++
		if i, err = parseParamList(value, i, ';', "", &params); err != nil {
			return nil, err
		}
	}
	return &ContentDispositionHeader{DispositionType: EnumToken{Token: dtype}, Params: params}, nil
}

// MaxForwardsHeader is the Max-Forwards header (spec §4.4.3, §6.1 loop
// prevention: a proxy decrements this on every forward and rejects at 0).
type MaxForwardsHeader struct {
	N uint8
}

func (h *MaxForwardsHeader) Name() string  { return "Max-Forwards" }
func (h *MaxForwardsHeader) Value() string { return strconv.Itoa(int(h.N)) }
func (h *MaxForwardsHeader) String() string { return "Max-Forwards: " + h.Value() }
func (h *MaxForwardsHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Max-Forwards: ")
	w.WriteString(h.Value())
}
func (h *MaxForwardsHeader) headerClone() Header {
	if h == nil {
		return (*MaxForwardsHeader)(nil)
	}
	return &MaxForwardsHeader{N: h.N}
}

func parseMaxForwardsHeader(value string) (Header, error) {
	n, err := parseClampedUint(value, 255)
	if err != nil {
		return nil, newParseError(ErrInvalidHeader, "Max-Forwards", 0, value)
	}
	return &MaxForwardsHeader{N: uint8(n)}, nil
}

// ExpiresHeader is the Expires header (spec §4.4.3): delta-seconds.
type ExpiresHeader struct {
	Seconds uint32
}

func (h *ExpiresHeader) Name() string  { return "Expires" }
func (h *ExpiresHeader) Value() string { return strconv.FormatUint(uint64(h.Seconds), 10) }
func (h *ExpiresHeader) String() string { return "Expires: " + h.Value() }
func (h *ExpiresHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Expires: ")
	w.WriteString(h.Value())
}
func (h *ExpiresHeader) headerClone() Header {
	if h == nil {
		return (*ExpiresHeader)(nil)
	}
	return &ExpiresHeader{Seconds: h.Seconds}
}

func parseExpiresHeader(value string) (Header, error) {
	n, err := parseClampedUint(value, 1<<32-1)
	if err != nil {
		return nil, newParseError(ErrInvalidHeader, "Expires", 0, value)
	}
	return &ExpiresHeader{Seconds: uint32(n)}, nil
}

// MinExpiresHeader is the Min-Expires header (spec §4.4.3).
type MinExpiresHeader struct {
	Seconds uint32
}

func (h *MinExpiresHeader) Name() string  { return "Min-Expires" }
func (h *MinExpiresHeader) Value() string { return strconv.FormatUint(uint64(h.Seconds), 10) }
func (h *MinExpiresHeader) String() string { return "Min-Expires: " + h.Value() }
func (h *MinExpiresHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Min-Expires: ")
	w.WriteString(h.Value())
}
func (h *MinExpiresHeader) headerClone() Header {
	if h == nil {
		return (*MinExpiresHeader)(nil)
	}
	return &MinExpiresHeader{Seconds: h.Seconds}
}

func parseMinExpiresHeader(value string) (Header, error) {
	n, err := parseClampedUint(value, 1<<32-1)
	if err != nil {
		return nil, newParseError(ErrInvalidHeader, "Min-Expires", 0, value)
	}
	return &MinExpiresHeader{Seconds: uint32(n)}, nil
}

// RetryAfterHeader is the Retry-After header (RFC 3261 §20.33, spec §1): a
// delta-seconds value telling the recipient when to retry, with an optional
// free-text comment and optional parameters ("duration" is the one the
// grammar names; anything else is a generic-param).
type RetryAfterHeader struct {
	Seconds    uint32
	Comment    string // empty if absent
	HasComment bool
	Params     HeaderParameters
}

func (h *RetryAfterHeader) Name() string { return "Retry-After" }
func (h *RetryAfterHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *RetryAfterHeader) String() string { return "Retry-After: " + h.Value() }
func (h *RetryAfterHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Retry-After: ")
	h.ValueStringWrite(w)
}
func (h *RetryAfterHeader) ValueStringWrite(w io.StringWriter) {
	w.WriteString(strconv.FormatUint(uint64(h.Seconds), 10))
	if h.HasComment {
		w.WriteString(" (")
		w.WriteString(h.Comment)
		w.WriteString(")")
	}
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *RetryAfterHeader) headerClone() Header {
	if h == nil {
		return (*RetryAfterHeader)(nil)
	}
	return &RetryAfterHeader{
		Seconds: h.Seconds, Comment: h.Comment, HasComment: h.HasComment, Params: h.Params.Clone(),
	}
}

// Duration returns the "duration" parameter, when present (the one
// retry-param the grammar names explicitly, alongside generic-params).
func (h *RetryAfterHeader) Duration() (string, bool) { return h.Params.Get("duration") }

func parseRetryAfterHeader(value string) (Header, error) {
	s := value
	i := skipWS(s, 0)
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return nil, newParseError(ErrInvalidHeader, "Retry-After", start, "missing delta-seconds")
	}
	n, err := parseClampedUint(s[start:i], 1<<32-1)
	if err != nil {
		return nil, err
	}

	i = skipWS(s, i)
	var comment string
	hasComment := false
	if i < len(s) && s[i] == '(' {
		comment, i, err = lexComment(s, i)
		if err != nil {
			return nil, err
		}
		hasComment = true
		i = skipWS(s, i)
	}

	params := NewHeaderParameters()
	if i < len(s) && s[i] == ';' {
		i++
		if i, err = parseParamList(s, i, ';', "", &params); err != nil {
			return nil, err
		}
	}
	if i != len(s) {
		return nil, newParseError(ErrRemainingUnparsedData, "Retry-After", i, s[i:])
	}

	return &RetryAfterHeader{Seconds: uint32(n), Comment: comment, HasComment: hasComment, Params: params}, nil
}

// opaqueTextHeader covers the plain-text headers whose grammar this library
// does not further decompose: User-Agent, Server, Organization, Subject,
// MIME-Version, Timestamp, Date — one free-text field each, differing only
// in header name.
type opaqueTextHeader struct {
	headerName string
	text       string
}

func (h *opaqueTextHeader) Name() string   { return h.headerName }
func (h *opaqueTextHeader) Value() string  { return h.text }
func (h *opaqueTextHeader) String() string { return h.headerName + ": " + h.text }
func (h *opaqueTextHeader) StringWrite(w io.StringWriter) {
	w.WriteString(h.headerName)
	w.WriteString(": ")
	w.WriteString(h.text)
}

// UserAgentHeader is the User-Agent header (spec §4.4.3).
type UserAgentHeader struct{ opaqueTextHeader }

func newUserAgentHeader(text string) *UserAgentHeader {
	return &UserAgentHeader{opaqueTextHeader{headerName: "User-Agent", text: text}}
}
func (h *UserAgentHeader) headerClone() Header {
	if h == nil {
		return (*UserAgentHeader)(nil)
	}
	return newUserAgentHeader(h.text)
}

func parseUserAgentHeader(value string) (Header, error) {
	return newUserAgentHeader(trimWS(value)), nil
}

// ServerHeader is the Server header (spec §4.4.3).
type ServerHeader struct{ opaqueTextHeader }

func newServerHeader(text string) *ServerHeader {
	return &ServerHeader{opaqueTextHeader{headerName: "Server", text: text}}
}
func (h *ServerHeader) headerClone() Header {
	if h == nil {
		return (*ServerHeader)(nil)
	}
	return newServerHeader(h.text)
}

func parseServerHeader(value string) (Header, error) {
	return newServerHeader(trimWS(value)), nil
}

// OrganizationHeader is the Organization header (spec §4.4.3).
type OrganizationHeader struct{ opaqueTextHeader }

func newOrganizationHeader(text string) *OrganizationHeader {
	return &OrganizationHeader{opaqueTextHeader{headerName: "Organization", text: text}}
}
func (h *OrganizationHeader) headerClone() Header {
	if h == nil {
		return (*OrganizationHeader)(nil)
	}
	return newOrganizationHeader(h.text)
}

func parseOrganizationHeader(value string) (Header, error) {
	return newOrganizationHeader(trimWS(value)), nil
}

// SubjectHeader is the Subject header (spec §4.4.3).
type SubjectHeader struct{ opaqueTextHeader }

func newSubjectHeader(text string) *SubjectHeader {
	return &SubjectHeader{opaqueTextHeader{headerName: "Subject", text: text}}
}
func (h *SubjectHeader) headerClone() Header {
	if h == nil {
		return (*SubjectHeader)(nil)
	}
	return newSubjectHeader(h.text)
}

func parseSubjectHeader(value string) (Header, error) {
	return newSubjectHeader(trimWS(value)), nil
}

// MIMEVersionHeader is the MIME-Version header (spec §4.4.3).
type MIMEVersionHeader struct{ opaqueTextHeader }

func newMIMEVersionHeader(text string) *MIMEVersionHeader {
	return &MIMEVersionHeader{opaqueTextHeader{headerName: "MIME-Version", text: text}}
}
func (h *MIMEVersionHeader) headerClone() Header {
	if h == nil {
		return (*MIMEVersionHeader)(nil)
	}
	return newMIMEVersionHeader(h.text)
}

func parseMIMEVersionHeader(value string) (Header, error) {
	return newMIMEVersionHeader(trimWS(value)), nil
}

// TimestampHeader is the Timestamp header (spec §4.4.3): stored as text
// since its grammar (a float, optionally with a delay) carries no
// comparison semantics this library needs beyond pass-through, aside from
// the integer-part digit cap enforced at parse time.
type TimestampHeader struct{ opaqueTextHeader }

func newTimestampHeader(text string) *TimestampHeader {
	return &TimestampHeader{opaqueTextHeader{headerName: "Timestamp", text: text}}
}
func (h *TimestampHeader) headerClone() Header {
	if h == nil {
		return (*TimestampHeader)(nil)
	}
	return newTimestampHeader(h.text)
}

func parseTimestampHeader(value string) (Header, error) {
	return newTimestampHeader(truncateTimestampDigits(trimWS(value))), nil
}

// truncateTimestampDigits enforces spec §4.4.3's cap on the Timestamp
// header's leading digit run: digits beyond the 9th are dropped rather
// than rejected, so an over-precise sender can't produce a parse failure.
func truncateTimestampDigits(v string) string {
	i := 0
	for i < len(v) && isDigit(v[i]) {
		i++
	}
	if i > 9 {
		return v[:9] + v[i:]
	}
	return v
}

// DateHeader is the Date header (spec §4.4.3): an RFC 1123 date whose zone
// must be GMT; any other zone is a parse error, not a stored oddity.
type DateHeader struct{ opaqueTextHeader }

func newDateHeader(text string) *DateHeader {
	return &DateHeader{opaqueTextHeader{headerName: "Date", text: text}}
}
func (h *DateHeader) headerClone() Header {
	if h == nil {
		return (*DateHeader)(nil)
	}
	return newDateHeader(h.text)
}

func parseDateHeader(value string) (Header, error) {
	v := trimWS(value)
	if _, err := time.Parse(time.RFC1123, v); err != nil {
		return nil, newParseError(ErrInvalidHeader, "Date", 0, "not an RFC 1123 date: "+value)
	}
	if !strings.HasSuffix(v, " GMT") {
		return nil, newParseError(ErrInvalidHeader, "Date", 0, "zone must be GMT: "+value)
	}
	return newDateHeader(v), nil
}

// PriorityHeader is the Priority header (spec §4.4.3).
type PriorityHeader struct {
	Token EnumToken
}

func (h *PriorityHeader) Name() string  { return "Priority" }
func (h *PriorityHeader) Value() string { return h.Token.String() }
func (h *PriorityHeader) String() string { return "Priority: " + h.Token.String() }
func (h *PriorityHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Priority: ")
	w.WriteString(h.Token.String())
}
func (h *PriorityHeader) headerClone() Header {
	if h == nil {
		return (*PriorityHeader)(nil)
	}
	return &PriorityHeader{Token: h.Token}
}

func parsePriorityHeader(value string) (Header, error) {
	return &PriorityHeader{Token: EnumToken{Token: trimWS(value)}}, nil
}
