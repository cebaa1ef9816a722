// Package ip expands IP, CIDR and range expressions in host lists given on
// the command line. Entries that are not IP expressions (host names, aliases)
// pass through untouched.
package ip

import (
	"fmt"
	"math/big"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// MaxExpandedHosts bounds the number of addresses a single range or CIDR
// expression may produce.
const MaxExpandedHosts = 4096

// ExpandHosts expands every entry of hosts. Comma-separated entries are
// split first. Single IPs are normalized, "a-b" ranges where both ends are
// IPs and "net/len" blocks are expanded in ascending order, and anything else
// is kept verbatim. Duplicates are dropped, keeping the first occurrence.
func ExpandHosts(hosts []string) ([]string, error) {
	out := make([]string, 0, len(hosts))
	seen := make(map[string]struct{}, len(hosts))
	add := func(h string) {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	for _, entry := range hosts {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			expanded, err := expand(part)
			if err != nil {
				return nil, err
			}
			for _, h := range expanded {
				add(h)
			}
		}
	}
	return out, nil
}

func expand(part string) ([]string, error) {
	if parsed := net.ParseIP(part); parsed != nil {
		return []string{parsed.String()}, nil
	}

	if strings.Contains(part, "/") {
		if _, _, err := net.ParseCIDR(NormalizeCIDR(part)); err == nil {
			ips, err := GetUsableIPsFromCIDR(part)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to expand CIDR %q", part)
			}
			return ips, nil
		}
		return []string{part}, nil
	}

	if start, end, ok := strings.Cut(part, "-"); ok {
		start, end = strings.TrimSpace(start), strings.TrimSpace(end)
		if net.ParseIP(start) != nil && net.ParseIP(end) != nil {
			ips, err := GetIPsFromRange(start, end)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to expand range %q", part)
			}
			return ips, nil
		}
	}

	return []string{part}, nil
}

// GetIPsFromRange generates the IP addresses between start and end, inclusive.
// Supports both IPv4 and IPv6.
func GetIPsFromRange(ipStartStr, ipEndStr string) ([]string, error) {
	startIP := net.ParseIP(ipStartStr)
	endIP := net.ParseIP(ipEndStr)

	if startIP == nil {
		return nil, fmt.Errorf("invalid start IP address: '%s'", ipStartStr)
	}
	if endIP == nil {
		return nil, fmt.Errorf("invalid end IP address: '%s'", ipEndStr)
	}

	isStartIPv4 := startIP.To4() != nil
	isEndIPv4 := endIP.To4() != nil
	if isStartIPv4 != isEndIPv4 {
		return nil, errors.New("start and end IP addresses must be of the same family (IPv4 or IPv6)")
	}

	startNum := IPToBigInt(startIP)
	endNum := IPToBigInt(endIP)
	if startNum.Cmp(endNum) > 0 {
		return nil, errors.New("start IP address must not be greater than end IP address")
	}

	size := new(big.Int).Sub(endNum, startNum)
	if size.Cmp(big.NewInt(MaxExpandedHosts)) >= 0 {
		return nil, errors.Errorf("range %s-%s exceeds %d addresses", ipStartStr, ipEndStr, MaxExpandedHosts)
	}

	var ips []string
	one := big.NewInt(1)
	for current := new(big.Int).Set(startNum); current.Cmp(endNum) <= 0; current.Add(current, one) {
		ips = append(ips, BigIntToIP(current, isStartIPv4).String())
	}
	return ips, nil
}

// GetUsableIPsFromCIDR returns usable host IP addresses within a given CIDR block.
// For IPv4, it excludes the network and broadcast addresses, except for /31
// and /32 blocks where every address is a host.
func GetUsableIPsFromCIDR(cidrStr string) ([]string, error) {
	normalized := NormalizeCIDR(cidrStr)
	ip, ipNet, err := net.ParseCIDR(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR block '%s' (normalized to '%s'): %w", cidrStr, normalized, err)
	}

	isIPv4 := ip.To4() != nil
	ones, bits := ipNet.Mask.Size()
	hostBits := bits - ones
	if hostBits > 12 {
		return nil, errors.Errorf("CIDR %s exceeds %d addresses", cidrStr, MaxExpandedHosts)
	}

	first := IPToBigInt(ipNet.IP)
	count := int64(1) << uint(hostBits)
	skipEnds := isIPv4 && hostBits >= 2

	var ips []string
	for i := int64(0); i < count; i++ {
		if skipEnds && (i == 0 || i == count-1) {
			continue
		}
		n := new(big.Int).Add(first, big.NewInt(i))
		ips = append(ips, BigIntToIP(n, isIPv4).String())
	}
	return ips, nil
}

// NormalizeCIDR ensures a CIDR string is in "ip/prefixlen" format.
// It converts "ip/netmask" to "ip/prefixlen".
// If input is a plain IP, it appends /32 for IPv4 or /128 for IPv6.
func NormalizeCIDR(ipAddressOrCIDR string) string {
	ipAddressOrCIDR = strings.TrimSpace(ipAddressOrCIDR)
	if !strings.Contains(ipAddressOrCIDR, "/") {
		ip := net.ParseIP(ipAddressOrCIDR)
		if ip != nil {
			if ip.To4() != nil {
				return ipAddressOrCIDR + "/32"
			}
			return ipAddressOrCIDR + "/128"
		}
		return ipAddressOrCIDR
	}

	ipPart, maskPart, _ := strings.Cut(ipAddressOrCIDR, "/")
	ipPart, maskPart = strings.TrimSpace(ipPart), strings.TrimSpace(maskPart)

	if strings.Contains(maskPart, ".") {
		maskIP := net.ParseIP(maskPart)
		if maskIP != nil && maskIP.To4() != nil {
			prefixLen, _ := net.IPMask(maskIP.To4()).Size()
			return fmt.Sprintf("%s/%d", ipPart, prefixLen)
		}
	}
	return ipPart + "/" + maskPart
}

// IPToBigInt converts a net.IP to a *big.Int.
func IPToBigInt(ip net.IP) *big.Int {
	if ipv4 := ip.To4(); ipv4 != nil {
		return new(big.Int).SetBytes(ipv4)
	}
	return new(big.Int).SetBytes(ip)
}

// BigIntToIP converts a *big.Int to a net.IP of the given family.
func BigIntToIP(n *big.Int, isIPv4 bool) net.IP {
	size := net.IPv6len
	if isIPv4 {
		size = net.IPv4len
	}
	b := n.Bytes()
	if len(b) > size {
		b = b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return net.IP(out)
}
