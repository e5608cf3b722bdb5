package sip

import (
	"io"
	"strings"
)

// Header is a single SIP header field (spec §4.4 C4). Every concrete header
// type implements it; GenericHeader is the catch-all for any header name
// not natively modeled (spec §4.4.5 "ExtensionHeader").
type Header interface {
	Name() string
	Value() string
	String() string
	StringWrite(w io.StringWriter)
	headerClone() Header
}

// HeaderToLower normalizes a header name for case-insensitive comparisons
// and dispatch (spec §4.4: header names are case-insensitive).
func HeaderToLower(name string) string {
	return strings.ToLower(name)
}

// HeaderClone returns an independent deep copy of h.
func HeaderClone(h Header) Header {
	if h == nil {
		return nil
	}
	return h.headerClone()
}

// HeaderList is the ordered container of a message's headers (spec §4.5
// Message). Header order is preserved for render fidelity; typed fast
// accessors cache the first occurrence of singleton headers the way the
// teacher's `headers` struct does, generalized to the full header set.
type HeaderList struct {
	order []Header

	via           []*ViaHeader
	from          *FromHeader
	to            *ToHeader
	callID        *CallIDHeader
	contact       []*ContactHeader
	cseq          *CSeqHeader
	contentLength *ContentLengthHeader
	contentType   *ContentTypeHeader
	maxForwards   *MaxForwardsHeader
	route         []*RouteHeader
	recordRoute   []*RecordRouteHeader
}

func NewHeaderList() *HeaderList { return &HeaderList{} }

func (hs *HeaderList) String() string {
	var b strings.Builder
	hs.StringWrite(&b)
	return b.String()
}

func (hs *HeaderList) StringWrite(w io.StringWriter) {
	for i, h := range hs.order {
		if i > 0 {
			w.WriteString("\r\n")
		}
		h.StringWrite(w)
	}
}

// Add appends header to the end of the list and updates the typed caches.
func (hs *HeaderList) Add(header Header) {
	hs.order = append(hs.order, header)
	switch m := header.(type) {
	case *ViaHeader:
		hs.via = append(hs.via, m)
	case *FromHeader:
		if hs.from == nil {
			hs.from = m
		}
	case *ToHeader:
		if hs.to == nil {
			hs.to = m
		}
	case *CallIDHeader:
		if hs.callID == nil {
			hs.callID = m
		}
	case *ContactHeader:
		hs.contact = append(hs.contact, m)
	case *CSeqHeader:
		if hs.cseq == nil {
			hs.cseq = m
		}
	case *ContentLengthHeader:
		if hs.contentLength == nil {
			hs.contentLength = m
		}
	case *ContentTypeHeader:
		if hs.contentType == nil {
			hs.contentType = m
		}
	case *MaxForwardsHeader:
		if hs.maxForwards == nil {
			hs.maxForwards = m
		}
	case *RouteHeader:
		hs.route = append(hs.route, m)
	case *RecordRouteHeader:
		hs.recordRoute = append(hs.recordRoute, m)
	}
}

// PrependHeader inserts headers at the front of the list (used for Via
// insertion when forwarding, spec §6.1).
func (hs *HeaderList) PrependHeader(headers ...Header) {
	newOrder := make([]Header, 0, len(hs.order)+len(headers))
	newOrder = append(newOrder, headers...)
	newOrder = append(newOrder, hs.order...)
	hs.order = newOrder
	for i := len(headers) - 1; i >= 0; i-- {
		hs.reindex(headers[i])
	}
}

func (hs *HeaderList) reindex(header Header) {
	switch m := header.(type) {
	case *ViaHeader:
		hs.via = append([]*ViaHeader{m}, hs.via...)
	case *FromHeader:
		hs.from = m
	case *ToHeader:
		hs.to = m
	case *CallIDHeader:
		hs.callID = m
	case *ContactHeader:
		hs.contact = append([]*ContactHeader{m}, hs.contact...)
	case *CSeqHeader:
		hs.cseq = m
	case *ContentLengthHeader:
		hs.contentLength = m
	case *ContentTypeHeader:
		hs.contentType = m
	case *MaxForwardsHeader:
		hs.maxForwards = m
	case *RouteHeader:
		hs.route = append([]*RouteHeader{m}, hs.route...)
	case *RecordRouteHeader:
		hs.recordRoute = append([]*RecordRouteHeader{m}, hs.recordRoute...)
	}
}

func (hs *HeaderList) Headers() []Header { return hs.order }

func (hs *HeaderList) GetHeaders(name string) []Header {
	nameLower := HeaderToLower(name)
	var out []Header
	for _, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			out = append(out, h)
		}
	}
	return out
}

func (hs *HeaderList) GetHeader(name string) Header {
	nameLower := HeaderToLower(name)
	for _, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			return h
		}
	}
	return nil
}

// ReplaceHeader swaps the first header with the same name for header,
// appending it instead when no such header exists (used by SetBody to keep
// Content-Length in sync, spec §4.5 "assemble ... attach the raw body
// bytes").
func (hs *HeaderList) ReplaceHeader(header Header) {
	nameLower := HeaderToLower(header.Name())
	for i, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			hs.order[i] = header
			hs.recache()
			return
		}
	}
	hs.Add(header)
}

func (hs *HeaderList) RemoveHeader(name string) {
	nameLower := HeaderToLower(name)
	filtered := hs.order[:0]
	for _, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			continue
		}
		filtered = append(filtered, h)
	}
	hs.order = filtered
	hs.recache()
}

func (hs *HeaderList) recache() {
	hs.via, hs.contact, hs.route, hs.recordRoute = nil, nil, nil, nil
	hs.from, hs.to, hs.callID, hs.cseq, hs.contentLength, hs.contentType, hs.maxForwards = nil, nil, nil, nil, nil, nil, nil
	for i := len(hs.order) - 1; i >= 0; i-- {
		hs.reindex(hs.order[i])
	}
}

func (hs *HeaderList) CloneHeaders() []Header {
	out := make([]Header, 0, len(hs.order))
	for _, h := range hs.order {
		out = append(out, h.headerClone())
	}
	return out
}

func (hs *HeaderList) Via() (*ViaHeader, bool) {
	if len(hs.via) == 0 {
		return nil, false
	}
	return hs.via[0], true
}
func (hs *HeaderList) AllVia() []*ViaHeader { return hs.via }

func (hs *HeaderList) From() (*FromHeader, bool) { return hs.from, hs.from != nil }
func (hs *HeaderList) To() (*ToHeader, bool)      { return hs.to, hs.to != nil }
func (hs *HeaderList) CallID() (*CallIDHeader, bool) { return hs.callID, hs.callID != nil }
func (hs *HeaderList) CSeq() (*CSeqHeader, bool)     { return hs.cseq, hs.cseq != nil }
func (hs *HeaderList) ContentLength() (*ContentLengthHeader, bool) {
	return hs.contentLength, hs.contentLength != nil
}
func (hs *HeaderList) ContentType() (*ContentTypeHeader, bool) {
	return hs.contentType, hs.contentType != nil
}
func (hs *HeaderList) MaxForwards() (*MaxForwardsHeader, bool) {
	return hs.maxForwards, hs.maxForwards != nil
}
func (hs *HeaderList) Contact() (*ContactHeader, bool) {
	if len(hs.contact) == 0 {
		return nil, false
	}
	return hs.contact[0], true
}
func (hs *HeaderList) AllContact() []*ContactHeader { return hs.contact }
func (hs *HeaderList) Route() []*RouteHeader         { return hs.route }
func (hs *HeaderList) RecordRoute() []*RecordRouteHeader { return hs.recordRoute }

// GenericHeader models any header name this library does not parse into a
// dedicated type (spec §4.4.5 ExtensionHeader), holding the raw field-value
// transparently for pass-through.
type GenericHeader struct {
	HeaderName string
	Contents   string
}

func (h *GenericHeader) Name() string  { return h.HeaderName }
func (h *GenericHeader) Value() string { return h.Contents }

func (h *GenericHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}

func (h *GenericHeader) StringWrite(w io.StringWriter) {
	w.WriteString(h.HeaderName)
	w.WriteString(": ")
	w.WriteString(h.Contents)
}

func (h *GenericHeader) headerClone() Header {
	if h == nil {
		return (*GenericHeader)(nil)
	}
	return &GenericHeader{HeaderName: h.HeaderName, Contents: h.Contents}
}
