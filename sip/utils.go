package sip

import (
	"errors"
	"io"
	"math/rand"
	"net"
	"strings"
)

const (
	letterBytes   = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// RandStringBytesMask writes n random letters/digits into sb. Used by
// GenerateBranchN/GenerateTagN (sip.go) for the random suffix of a branch
// or tag value; ported from the teacher's sip/utils.go unchanged since it's
// still exercised by the same call sites here.
func RandStringBytesMask(sb *strings.Builder, n int) string {
	sb.Grow(n)
	for i, cache, remain := n-1, rand.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = rand.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			sb.WriteByte(letterBytes[idx])
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return sb.String()
}

// ASCIIToLower is a faster ASCII-only lowercaser than strings.ToLower: it
// returns the input unmodified (no allocation) when already lowercase.
func ASCIIToLower(s string) string {
	nonLowInd := -1
	for i, c := range s {
		if 'a' <= c && c <= 'z' {
			continue
		}
		nonLowInd = i
		break
	}
	if nonLowInd < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:nonLowInd])
	for i := nonLowInd; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UriIsSIP reports s == "sip" case-insensitively without an allocation.
func UriIsSIP(s string) bool {
	return strings.EqualFold(s, "sip")
}

// UriIsSIPS reports s == "sips" case-insensitively without an allocation.
func UriIsSIPS(s string) bool {
	return strings.EqualFold(s, "sips")
}

// ResolveInterfacesIP picks a bound local IP for a listener, preferring an
// interface whose subnet contains targetIP (nil means "any non-loopback
// interface"). It can turn a configured "0.0.0.0"/"[::]" listen host into
// the concrete advertised address a Contact/Via header needs, the way the
// teacher's cmd/proxysip resolves its own outbound address; nothing in this
// module calls it.
func ResolveInterfacesIP(network string, targetIP *net.IPNet) (net.IP, net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, net.Interface{}, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			if targetIP != nil && !targetIP.IP.IsLoopback() {
				continue
			}
		}

		ip, err := resolveInterfaceIP(iface, network, targetIP)
		if errors.Is(err, io.EOF) {
			continue
		}
		return ip, iface, err
	}

	return nil, net.Interface{}, errors.New("sip: no interface found on system")
}

func resolveInterfaceIP(iface net.Interface, network string, targetIP *net.IPNet) (net.IP, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP
		if targetIP != nil {
			if !targetIP.Contains(ip) {
				continue
			}
		} else if ip.IsLoopback() {
			continue
		}

		switch network {
		case "ip4":
			if ip.To4() == nil {
				continue
			}
		case "ip6":
			if ip.To4() != nil {
				continue
			}
		}
		return ip, nil
	}
	return nil, io.EOF
}

// MessageShortString dumps a short one-line description of msg, for logging.
func MessageShortString(msg Message) string {
	switch m := msg.(type) {
	case *Request:
		return m.Short()
	case *Response:
		return m.Short()
	}
	return "unknown message type"
}
