package sip

import (
	"net"
	"sort"
	"strconv"
	"strings"
)

// requiredURIParams are the parameter names whose asymmetric presence makes
// two URIs unequal even though they'd otherwise ignore unmatched params
// (spec §4.2 step 5 / RFC 3261 §19.1.4).
var requiredURIParams = map[string]bool{
	"transport": true, "user": true, "ttl": true, "method": true, "maddr": true,
}

// Equal implements the RFC 3261 §19.1.4 URI equivalence algorithm exactly
// as reimplemented in spec §4.2 — notably NOT transitive (spec §8.2/§8.3).
func (u Uri) Equal(o Uri) bool {
	if u.Scheme != o.Scheme {
		return false
	}
	if u.Scheme == SchemeAbsolute {
		return strings.EqualFold(u.AbsoluteScheme, o.AbsoluteScheme) &&
			u.Opaque == o.Opaque &&
			u.Params.Equal(o.Params) &&
			headersEquivalent(u.Headers, o.Headers)
	}

	if u.HasUser != o.HasUser {
		return false
	}
	if u.HasUser {
		if u.User != o.User {
			return false
		}
		if u.HasPassword != o.HasPassword {
			return false
		}
		if u.HasPassword && u.Password != o.Password {
			return false
		}
	}

	if !hostEqual(u, o) {
		return false
	}

	if u.HasPort != o.HasPort {
		return false
	}
	if u.HasPort && u.Port != o.Port {
		return false
	}

	if !uriParamsEquivalent(u.Params, o.Params) {
		return false
	}

	return headersEquivalent(u.Headers, o.Headers)
}

func hostEqual(a, b Uri) bool {
	if a.HostKind == HostIPv4 || a.HostKind == HostIPv6 || b.HostKind == HostIPv4 || b.HostKind == HostIPv6 {
		ipA := net.ParseIP(a.Host)
		ipB := net.ParseIP(b.Host)
		if ipA != nil && ipB != nil {
			return ipA.Equal(ipB)
		}
		return strings.EqualFold(a.Host, b.Host)
	}
	return strings.EqualFold(a.Host, b.Host)
}

// uriParamsEquivalent implements spec §4.2 step 5: for every parameter
// present in both, values must match under the per-parameter case rule;
// parameters present in only one side are ignored EXCEPT the required set,
// whose asymmetric presence makes the URIs unequal. `lr` is always ignored.
func uriParamsEquivalent(a, b HeaderParameters) bool {
	for _, kv := range a {
		name := strings.ToLower(kv.Name)
		if name == "lr" {
			continue
		}
		bv, ok := b.Get(kv.Name)
		if !ok {
			if requiredURIParams[name] {
				return false
			}
			continue
		}
		if !uriParamValueEqual(name, kv.Value.str(), bv) {
			return false
		}
	}
	for _, kv := range b {
		name := strings.ToLower(kv.Name)
		if name == "lr" {
			continue
		}
		if !a.Has(kv.Name) && requiredURIParams[name] {
			return false
		}
	}
	return true
}

// uriParamValueEqual applies the lowercase-for-comparison rule spec §3.2
// calls out for transport/user/method/maddr/lr, compares ttl as an integer,
// and compares any other parameter value byte-exact.
func uriParamValueEqual(name, a, b string) bool {
	switch name {
	case "transport", "user", "method", "maddr", "lr":
		return strings.EqualFold(a, b)
	case "ttl":
		return paramValueEqual(name, a, b)
	default:
		return a == b
	}
}

// headersEquivalent implements spec §4.2 step 6: the multiset of
// (name-lowercased, value) pairs must be identical.
func headersEquivalent(a, b HeaderParameters) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, kv := range a {
		found := false
		for j, other := range b {
			if used[j] {
				continue
			}
			if strings.EqualFold(kv.Name, other.Name) && kv.Value.str() == other.Value.str() {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal: derived from the same normalized
// projection (scheme, lowercased/normalized host, port, normalized
// userinfo, sorted normalized required-parameter subset, sorted lowercased
// header pairs), per spec §4.2/§9.
func (u Uri) Hash() uint64 {
	parts := []string{u.Scheme.String()}
	if u.Scheme == SchemeAbsolute {
		parts = append(parts, strings.ToLower(u.AbsoluteScheme), u.Opaque)
	} else {
		parts = append(parts, normalizedHost(u), portKey(u))
		if u.HasUser {
			parts = append(parts, "u="+u.User)
			if u.HasPassword {
				parts = append(parts, "p="+u.Password)
			}
		}
	}

	var reqParams []string
	for _, kv := range u.Params {
		name := strings.ToLower(kv.Name)
		if !requiredURIParams[name] {
			continue
		}
		val := strings.ToLower(kv.Value.str())
		if name == "ttl" {
			if n, err := strconv.Atoi(val); err == nil {
				val = strconv.Itoa(n)
			}
		}
		reqParams = append(reqParams, name+"="+val)
	}
	sort.Strings(reqParams)
	parts = append(parts, reqParams...)

	var headerPairs []string
	for _, kv := range u.Headers {
		headerPairs = append(headerPairs, strings.ToLower(kv.Name)+"="+kv.Value.str())
	}
	sort.Strings(headerPairs)
	parts = append(parts, headerPairs...)

	return fnvHashStrings(parts)
}

func normalizedHost(u Uri) string {
	if u.HostKind == HostIPv4 || u.HostKind == HostIPv6 {
		if ip := net.ParseIP(u.Host); ip != nil {
			return ip.String()
		}
	}
	return strings.ToLower(u.Host)
}

func portKey(u Uri) string {
	if !u.HasPort {
		return ""
	}
	return "p" + strconv.Itoa(int(u.Port))
}
