package cordova

import (
	"net"

	"github.com/thoreinstein/ionx/internal/errors"
)

// Localhost is the fallback serve address when no interface qualifies.
const Localhost = "localhost"

// AddressLister enumerates local interface addresses.
type AddressLister func() ([]net.Addr, error)

// DiscoverAddresses returns the non-loopback IPv4 addresses of this host in
// interface order.
func DiscoverAddresses(list AddressLister) ([]string, error) {
	if list == nil {
		list = net.InterfaceAddrs
	}
	addrs, err := list()
	if err != nil {
		return nil, errors.Wrap(err, "listing network interfaces")
	}

	var out []string
	seen := map[string]bool{}
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		ip4 := ip.To4()
		if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
			continue
		}
		s := ip4.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}
