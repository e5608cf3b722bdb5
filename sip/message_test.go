package sip

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionsFixture = "OPTIONS sip:carol@chicago.com SIP/2.0\r\n" +
	"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds\r\n" +
	"Max-Forwards: 70\r\n" +
	"To: <sip:carol@chicago.com>\r\n" +
	"From: Alice <sip:alice@atlanta.com>;tag=1928301774\r\n" +
	"Call-ID: a84b4c76e66710@pc33.atlanta.com\r\n" +
	"CSeq: 63104 OPTIONS\r\n" +
	"Contact: <sip:alice@pc33.atlanta.com>\r\n" +
	"Accept: application/sdp\r\n" +
	"Content-Length: 0\r\n" +
	"\r\n"

// S1 - parsing an OPTIONS request yields the declared headers in order, a
// zero-byte body, and a byte-exact preserved re-render.
func TestParseMessage_OptionsRequest(t *testing.T) {
	msg, err := ParseMessage([]byte(optionsFixture))
	require.NoError(t, err)

	req, ok := msg.(*Request)
	require.True(t, ok)
	assert.Equal(t, OPTIONS, req.Method)
	assert.Equal(t, "carol", req.RequestURI.User)
	assert.Len(t, req.Headers(), 9)
	assert.Empty(t, req.Body())

	assert.Equal(t, optionsFixture, Serialize(msg, ModePreserved))
}

// S2 - parsing a response attaches the body verbatim and exposes status,
// phrase, and header count.
func TestParseMessage_200OKWithBody(t *testing.T) {
	body := strings.Repeat("a", 274)
	head := "SIP/2.0 200 OK\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds\r\n" +
		"Via: SIP/2.0/UDP bigbox3.site3.atlanta.com;branch=z9hG4bK77ef4c2312983.1\r\n" +
		"To: <sip:carol@chicago.com>;tag=93810874\r\n" +
		"From: Alice <sip:alice@atlanta.com>;tag=1928301774\r\n" +
		"Call-ID: a84b4c76e66710@pc33.atlanta.com\r\n" +
		"CSeq: 63104 OPTIONS\r\n" +
		"Contact: <sip:carol@chicago.com>\r\n" +
		"Contact: <sip:carol@192.0.2.4>\r\n" +
		"Allow: INVITE, ACK, CANCEL, OPTIONS, BYE\r\n" +
		"Accept: application/sdp\r\n" +
		"Accept-Encoding: gzip\r\n" +
		"Accept-Language: en\r\n" +
		"Supported: replaces\r\n" +
		"Content-Length: 274\r\n" +
		"\r\n"
	raw := head + body

	msg, err := ParseMessage([]byte(raw))
	require.NoError(t, err)

	resp, ok := msg.(*Response)
	require.True(t, ok)
	assert.Equal(t, StatusCode(200), resp.StatusCode())
	assert.Equal(t, "OK", resp.Reason.Phrase)
	assert.Len(t, resp.Headers(), 14)
	assert.Len(t, resp.Body(), 274)
}

// S3 - Via header order is significant: two messages differing only by Via
// entry order must not render identically.
func TestViaOrderSignificance(t *testing.T) {
	a := "OPTIONS sip:carol@chicago.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP a;branch=1, SIP/2.0/UDP b;branch=2\r\n" +
		"Call-ID: x\r\nCSeq: 1 OPTIONS\r\nTo: <sip:carol@chicago.com>\r\n" +
		"From: <sip:alice@atlanta.com>;tag=1\r\nContent-Length: 0\r\n\r\n"
	b := "OPTIONS sip:carol@chicago.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP b;branch=2, SIP/2.0/UDP a;branch=1\r\n" +
		"Call-ID: x\r\nCSeq: 1 OPTIONS\r\nTo: <sip:carol@chicago.com>\r\n" +
		"From: <sip:alice@atlanta.com>;tag=1\r\nContent-Length: 0\r\n\r\n"

	ma, err := ParseMessage([]byte(a))
	require.NoError(t, err)
	mb, err := ParseMessage([]byte(b))
	require.NoError(t, err)

	assert.NotEqual(t, Serialize(ma, ModeNormalized), Serialize(mb, ModeNormalized))
}

// S4 - Authorization parses, and response must be exactly 32 hex digits.
func TestAuthorizationDigestResponseLength(t *testing.T) {
	ok := `Authorization: Digest username="Alice", realm="atlanta.com", nonce="84a4cc6f3082121f32b42a2187831a9e", response="7587245234b3434cc3412213e5f113a5"`
	name, value, err := splitHeaderLine(ok)
	require.NoError(t, err)
	headers, err := ParseHeader(name, value)
	require.NoError(t, err)
	require.Len(t, headers, 1)
	auth, ok2 := headers[0].(*AuthorizationHeader)
	require.True(t, ok2)
	assert.Len(t, auth.Credentials.Response, 32)

	for _, bad := range []string{
		`Authorization: Digest username="Alice", realm="atlanta.com", nonce="84a4cc6f3082121f32b42a2187831a9e", response="7587245234b3434cc3412213e5f113a"`,
		`Authorization: Digest username="Alice", realm="atlanta.com", nonce="84a4cc6f3082121f32b42a2187831a9e", response="7587245234b3434cc3412213e5f113a55"`,
	} {
		n, v, err := splitHeaderLine(bad)
		require.NoError(t, err)
		_, err = ParseHeader(n, v)
		assert.Error(t, err)
	}
}

// S5 - Content-Length overflow clamps to uint32 max rather than erroring.
func TestContentLengthOverflowClamps(t *testing.T) {
	name, value, err := splitHeaderLine("Content-Length: 99999999999999999")
	require.NoError(t, err)
	headers, err := ParseHeader(name, value)
	require.NoError(t, err)
	require.Len(t, headers, 1)
	cl, ok := headers[0].(*ContentLengthHeader)
	require.True(t, ok)
	assert.Equal(t, uint32(1<<32-1), cl.N)
}

// S6 - a multipart tunneled INVITE body is attached verbatim; the outer
// parser never recurses into it.
func TestMultipartTunneledInviteBodyNotRecursed(t *testing.T) {
	inner := "INVITE sip:bob@biloxi.com SIP/2.0\r\nTo: <sip:bob@biloxi.com>\r\n\r\n"
	body := "--boundary42\r\nContent-Type: message/sip\r\n\r\n" + inner + "--boundary42--"
	head := "INVITE sip:bob@biloxi.com SIP/2.0\r\n" +
		"Call-ID: tunnel@example.com\r\nCSeq: 1 INVITE\r\n" +
		"To: <sip:bob@biloxi.com>\r\nFrom: <sip:alice@atlanta.com>;tag=1\r\n" +
		`Content-Type: multipart/signed;protocol="application/pkcs7-signature";micalg=sha1;boundary=boundary42` + "\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n"

	msg, err := ParseMessage([]byte(head + body))
	require.NoError(t, err)
	req := msg.(*Request)
	assert.Equal(t, body, string(req.Body()))
	assert.Len(t, req.Body(), len(body))
}

// Round-trip law 1: preserved re-render of a parsed message is byte-exact.
func TestRoundTrip_PreservedIsByteExact(t *testing.T) {
	msg, err := ParseMessage([]byte(optionsFixture))
	require.NoError(t, err)
	assert.Equal(t, optionsFixture, Serialize(msg, ModePreserved))
}

// Round-trip law 2: normalization is idempotent.
func TestRoundTrip_NormalizationIdempotent(t *testing.T) {
	msg, err := ParseMessage([]byte(optionsFixture))
	require.NoError(t, err)
	normalized := Serialize(msg, ModeNormalized)

	msg2, err := ParseMessage([]byte(normalized))
	require.NoError(t, err)
	normalized2 := Serialize(msg2, ModeNormalized)

	assert.Equal(t, normalized, normalized2)
}

// Round-trip law 3: compact rendering is lossless at the header-count level
// (headers, start-line, and body survive a round trip through compact form).
func TestRoundTrip_CompactLosslessAtModelLevel(t *testing.T) {
	msg, err := ParseMessage([]byte(optionsFixture))
	require.NoError(t, err)
	compact := Serialize(msg, ModeCompact)

	msg2, err := ParseMessage([]byte(compact))
	require.NoError(t, err)

	req1 := msg.(*Request)
	req2 := msg2.(*Request)
	assert.Equal(t, req1.Method, req2.Method)
	assert.Equal(t, len(req1.Headers()), len(req2.Headers()))
	assert.Equal(t, req1.Body(), req2.Body())
}

func TestSetBodyKeepsContentLengthInSync(t *testing.T) {
	req := NewRequest(INVITE, NewSipUri("bob", "biloxi.com"))
	req.SetBody([]byte("hello"))
	cl := req.ContentLength()
	require.NotNil(t, cl)
	assert.Equal(t, uint32(5), cl.N)
}

func TestAppendHeaderAfterInsertsImmediatelyAfterNamedHeader(t *testing.T) {
	msg, err := ParseMessage([]byte(optionsFixture))
	require.NoError(t, err)

	topVia := &ViaHeader{Version: DefaultVersion, Transport: "UDP", Host: "proxy.example.com"}
	msg.AppendHeaderAfter(topVia, "Via")

	headers := msg.Headers()
	require.GreaterOrEqual(t, len(headers), 2)
	assert.Equal(t, "Via", headers[0].Name())
	assert.Equal(t, "Via", headers[1].Name())
	assert.Equal(t, "proxy.example.com", msg.AllVia()[1].Host)
}
