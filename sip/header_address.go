package sip

import (
	"io"
	"strings"
)

// Every name-addr header below has the same shape, a NameAddress plus
// generic parameters, declared per type (spec §4.4.1 From/To/Contact/Route/
// Record-Route/Reply-To all share this grammar, differing only in header
// name and in whether multiple instances/comma-lists are legal).

// FromHeader is the From header (spec §4.4.1).
type FromHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *FromHeader) Name() string { return "From" }
func (h *FromHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *FromHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *FromHeader) StringWrite(w io.StringWriter) {
	w.WriteString("From: ")
	h.ValueStringWrite(w)
}
func (h *FromHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *FromHeader) headerClone() Header {
	if h == nil {
		return (*FromHeader)(nil)
	}
	return &FromHeader{Address: h.Address, Params: h.Params.Clone()}
}

// Tag returns the `tag` parameter, required on any From sent within a
// dialog (spec §4.4.1).
func (h *FromHeader) Tag() (string, bool) { return h.Params.Get("tag") }

// Equal compares address and parameters, matching spec §4.7's generic
// name-addr-plus-params header equality.
func (h *FromHeader) Equal(o *FromHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Address.Equal(o.Address) && h.Params.Equal(o.Params)
}

// ToHeader is the To header (spec §4.4.1).
type ToHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *ToHeader) Name() string { return "To" }
func (h *ToHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ToHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *ToHeader) StringWrite(w io.StringWriter) {
	w.WriteString("To: ")
	h.ValueStringWrite(w)
}
func (h *ToHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ToHeader) headerClone() Header {
	if h == nil {
		return (*ToHeader)(nil)
	}
	return &ToHeader{Address: h.Address, Params: h.Params.Clone()}
}
func (h *ToHeader) Tag() (string, bool) { return h.Params.Get("tag") }
func (h *ToHeader) Equal(o *ToHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Address.Equal(o.Address) && h.Params.Equal(o.Params)
}

// ContactHeader is a single Contact binding (spec §4.4.1). A Contact list
// header holds several of these; the `*` wildcard form is modeled at the
// ContactList level, not here (Open Question decision 2).
type ContactHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *ContactHeader) Name() string { return "Contact" }
func (h *ContactHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ContactHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *ContactHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Contact: ")
	h.ValueStringWrite(w)
}
func (h *ContactHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ContactHeader) headerClone() Header {
	if h == nil {
		return (*ContactHeader)(nil)
	}
	return &ContactHeader{Address: h.Address, Params: h.Params.Clone()}
}
func (h *ContactHeader) Q() (string, bool)       { return h.Params.Get("q") }
func (h *ContactHeader) Expires() (string, bool) { return h.Params.Get("expires") }
func (h *ContactHeader) Equal(o *ContactHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Address.Equal(o.Address) && h.Params.Equal(o.Params)
}

// ContactWildcard represents `Contact: *`, legal only in a REGISTER
// request and only alone (Open Question decision 2: it cannot coexist with
// named contacts in the same header).
type ContactWildcard struct{}

func (ContactWildcard) Name() string            { return "Contact" }
func (ContactWildcard) Value() string           { return "*" }
func (ContactWildcard) String() string          { return "Contact: *" }
func (ContactWildcard) StringWrite(w io.StringWriter) { w.WriteString("Contact: *") }
func (c ContactWildcard) headerClone() Header   { return c }

// RouteHeader is a single Route entry (spec §4.4.1); order-significant.
type RouteHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *RouteHeader) Name() string { return "Route" }
func (h *RouteHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *RouteHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *RouteHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Route: ")
	h.ValueStringWrite(w)
}
func (h *RouteHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *RouteHeader) headerClone() Header {
	if h == nil {
		return (*RouteHeader)(nil)
	}
	return &RouteHeader{Address: h.Address, Params: h.Params.Clone()}
}
func (h *RouteHeader) Equal(o *RouteHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Address.Equal(o.Address) && h.Params.Equal(o.Params)
}

// RecordRouteHeader is a single Record-Route entry (spec §4.4.1);
// order-significant, mirrors RouteHeader.
type RecordRouteHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *RecordRouteHeader) Name() string { return "Record-Route" }
func (h *RecordRouteHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *RecordRouteHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *RecordRouteHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Record-Route: ")
	h.ValueStringWrite(w)
}
func (h *RecordRouteHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *RecordRouteHeader) headerClone() Header {
	if h == nil {
		return (*RecordRouteHeader)(nil)
	}
	return &RecordRouteHeader{Address: h.Address, Params: h.Params.Clone()}
}
func (h *RecordRouteHeader) Equal(o *RecordRouteHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Address.Equal(o.Address) && h.Params.Equal(o.Params)
}

// ReplyToHeader is the Reply-To header (spec §4.4.1).
type ReplyToHeader struct {
	Address NameAddress
	Params  HeaderParameters
}

func (h *ReplyToHeader) Name() string { return "Reply-To" }
func (h *ReplyToHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ReplyToHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *ReplyToHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Reply-To: ")
	h.ValueStringWrite(w)
}
func (h *ReplyToHeader) ValueStringWrite(w io.StringWriter) {
	h.Address.StringWrite(w)
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ReplyToHeader) headerClone() Header {
	if h == nil {
		return (*ReplyToHeader)(nil)
	}
	return &ReplyToHeader{Address: h.Address, Params: h.Params.Clone()}
}

// parseAddressHeaderValue parses the common "name-addr *(SEMI param)"
// grammar shared by From/To/Contact/Route/Record-Route/Reply-To.
func parseAddressHeaderValue(s string) (NameAddress, HeaderParameters, error) {
	na, i, err := ParseNameAddress(s, 0)
	if err != nil {
		return NameAddress{}, nil, err
	}
	params := NewHeaderParameters()
	i = skipWS(s, i)
	if i < len(s) && s[i] == ';' {
		i++
		if i, err = parseParamList(s, i, ';', "", &params); err != nil {
			return NameAddress{}, nil, err
		}
	}
	if i != len(s) {
		return NameAddress{}, nil, newParseError(ErrRemainingUnparsedData, "address-header", i, s[i:])
	}
	return na, params, nil
}

func parseFromHeader(value string) (Header, error) {
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &FromHeader{Address: na, Params: params}, nil
}

func parseToHeader(value string) (Header, error) {
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &ToHeader{Address: na, Params: params}, nil
}

func parseContactHeaderOne(value string) (Header, error) {
	if strings.TrimSpace(value) == "*" {
		return ContactWildcard{}, nil
	}
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &ContactHeader{Address: na, Params: params}, nil
}

func parseRouteHeaderOne(value string) (Header, error) {
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &RouteHeader{Address: na, Params: params}, nil
}

func parseRecordRouteHeaderOne(value string) (Header, error) {
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &RecordRouteHeader{Address: na, Params: params}, nil
}

func parseReplyToHeader(value string) (Header, error) {
	na, params, err := parseAddressHeaderValue(value)
	if err != nil {
		return nil, err
	}
	return &ReplyToHeader{Address: na, Params: params}, nil
}
