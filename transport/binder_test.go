package transport

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipweave/sipcore/config"
	"github.com/sipweave/sipcore/sip"
)

func TestBinder_UDPDeliversParsedMessage(t *testing.T) {
	received := make(chan sip.Message, 1)
	binder := NewBinder(zerolog.Nop(), nil, func(msg sip.Message) {
		received <- msg
	})

	require.NoError(t, binder.Bind([]config.Listener{{Network: "udp", Addr: "127.0.0.1:0"}}))
	defer binder.Close()

	addr := binder.udpListeners[0].conn.LocalAddr().(*net.UDPAddr)
	go binder.udpListeners[0].serve(binder.deliver)

	raw := "OPTIONS sip:carol@chicago.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP pc33.atlanta.com;branch=z9hG4bK776asdhds\r\n" +
		"Call-ID: a84b4c76e66710@pc33.atlanta.com\r\n" +
		"CSeq: 1 OPTIONS\r\n" +
		"To: <sip:carol@chicago.com>\r\n" +
		"From: <sip:alice@atlanta.com>;tag=1928301774\r\n" +
		"Content-Length: 0\r\n\r\n"

	conn, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte(raw))
	require.NoError(t, err)

	select {
	case msg := <-received:
		req, ok := msg.(*sip.Request)
		require.True(t, ok)
		assert.Equal(t, sip.OPTIONS, req.Method)
		assert.Equal(t, "udp", req.Transport())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivered message")
	}
}

func TestBinder_MalformedMessageReportsParseError(t *testing.T) {
	var reportedNetwork string
	errc := make(chan error, 1)

	binder := NewBinder(zerolog.Nop(), nil, func(msg sip.Message) {
		t.Fatal("handler should not be called for a malformed message")
	})
	binder.onParseError = func(network, addr string, err error) {
		reportedNetwork = network
		errc <- err
	}

	require.NoError(t, binder.Bind([]config.Listener{{Network: "udp", Addr: "127.0.0.1:0"}}))
	defer binder.Close()

	addr := binder.udpListeners[0].conn.LocalAddr().(*net.UDPAddr)
	go binder.udpListeners[0].serve(binder.deliver)

	conn, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("not a sip message"))
	require.NoError(t, err)

	select {
	case err := <-errc:
		assert.Error(t, err)
		assert.Equal(t, "udp", reportedNetwork)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reported parse error")
	}
}
