package sip

import (
	"io"
	"strconv"
	"strings"
)

// ViaHeader is a single Via entry (spec §4.4.2). A message's Via list is
// order-significant (spec §4.7): the topmost Via is the most recent hop.
type ViaHeader struct {
	Version   Version
	Transport string // token, rendered verbatim (case preserved)
	Host      string
	HostKind  HostKind
	HasPort   bool
	Port      uint16
	Params    HeaderParameters
}

func (h *ViaHeader) Name() string { return "Via" }
func (h *ViaHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *ViaHeader) String() string {
	var b strings.Builder
	h.StringWrite(&b)
	return b.String()
}
func (h *ViaHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Via: ")
	h.ValueStringWrite(w)
}
func (h *ViaHeader) ValueStringWrite(w io.StringWriter) {
	w.WriteString(h.Version.String())
	w.WriteString("/")
	w.WriteString(h.Transport)
	w.WriteString(" ")
	if h.HostKind == HostIPv6 {
		w.WriteString("[")
		w.WriteString(h.Host)
		w.WriteString("]")
	} else {
		w.WriteString(h.Host)
	}
	if h.HasPort {
		w.WriteString(":")
		w.WriteString(strconv.Itoa(int(h.Port)))
	}
	if h.Params.Len() > 0 {
		w.WriteString(";")
		h.Params.render(';', w)
	}
}
func (h *ViaHeader) headerClone() Header {
	if h == nil {
		return (*ViaHeader)(nil)
	}
	return &ViaHeader{
		Version: h.Version, Transport: h.Transport, Host: h.Host, HostKind: h.HostKind,
		HasPort: h.HasPort, Port: h.Port, Params: h.Params.Clone(),
	}
}

func (h *ViaHeader) Branch() (string, bool) { return h.Params.Get("branch") }
func (h *ViaHeader) Received() (string, bool) { return h.Params.Get("received") }
func (h *ViaHeader) RPort() (string, bool)    { return h.Params.Get("rport") }
func (h *ViaHeader) Maddr() (string, bool)    { return h.Params.Get("maddr") }
func (h *ViaHeader) TTL() (string, bool)      { return h.Params.Get("ttl") }

// SentBy renders "host[:port]" — the token proxies compare against an
// incoming top Via when deciding whether to strip their own hop (spec
// §6.1).
func (h *ViaHeader) SentBy() string {
	var b strings.Builder
	if h.HostKind == HostIPv6 {
		b.WriteString("[")
		b.WriteString(h.Host)
		b.WriteString("]")
	} else {
		b.WriteString(h.Host)
	}
	if h.HasPort {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(int(h.Port)))
	}
	return b.String()
}

// Equal implements spec §4.7's Via equality: sent-protocol, sent-by, and
// parameters must all match; branch is case-sensitive via paramValueEqual.
func (h *ViaHeader) Equal(o *ViaHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Version.Equal(o.Version) &&
		strings.EqualFold(h.Transport, o.Transport) &&
		strings.EqualFold(h.Host, o.Host) &&
		h.HasPort == o.HasPort && h.Port == o.Port &&
		h.Params.Equal(o.Params)
}

// parseViaHeaderOne parses a single Via entry: sent-protocol SP sent-by
// *(SEMI via-params).
func parseViaHeaderOne(value string) (Header, error) {
	s := value
	i := skipWS(s, 0)

	slash1 := strings.IndexByte(s[i:], '/')
	if slash1 < 0 {
		return nil, newParseError(ErrInvalidHeader, "Via", i, "missing SIP-Version")
	}
	versionEnd := i + slash1
	slash2rel := strings.IndexByte(s[versionEnd+1:], '/')
	if slash2rel < 0 {
		return nil, newParseError(ErrInvalidHeader, "Via", versionEnd, "missing transport")
	}
	protoEnd := versionEnd + 1 + slash2rel

	version, err := ParseVersion(s[i:protoEnd])
	if err != nil {
		return nil, err
	}
	// the "protocol-name" component (always "SIP") is discarded; only the
	// version and transport carry semantic weight in this library.
	transportStart := protoEnd + 1
	transportEnd := transportStart
	for transportEnd < len(s) && !isWSP(s[transportEnd]) {
		transportEnd++
	}
	transport := s[transportStart:transportEnd]

	i = skipWS(s, transportEnd)

	host, hostKind, hasPort, port, next, err := parseHostPort(s, i)
	if err != nil {
		return nil, err
	}
	i = next

	params := NewHeaderParameters()
	i = skipWS(s, i)
	if i < len(s) && s[i] == ';' {
		i++
		if i, err = parseParamList(s, i, ';', "", &params); err != nil {
			return nil, err
		}
	}
	if i != len(s) {
		return nil, newParseError(ErrRemainingUnparsedData, "Via", i, s[i:])
	}

	return &ViaHeader{
		Version: version, Transport: transport, Host: host, HostKind: hostKind,
		HasPort: hasPort, Port: port, Params: params,
	}, nil
}
