package dram

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/archgen/config"
)

// mopPrefix marks the minimalist open-page family of mappings, which take an
// interleave granularity in cache lines, e.g. MOP4.
const mopPrefix = "MOP"

var schemeNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// AddressMapping identifies how physical address bits are split into
// channel, rank, bank group, bank, row and column.
type AddressMapping struct {
	// Scheme is the family name, e.g. MOP or COFFEELAKE.
	Scheme string
	// Granularity is the interleave width of parameterized schemes, 0
	// otherwise.
	Granularity int
}

// Parameterized reports whether the scheme carries a granularity.
func (m AddressMapping) Parameterized() bool {
	return m.Granularity > 0
}

// String reproduces the configuration token.
func (m AddressMapping) String() string {
	if m.Parameterized() {
		return m.Scheme + strconv.Itoa(m.Granularity)
	}

	return m.Scheme
}

// ParseAddressMapping decodes an address-mapping token. Tokens that start
// with MOP must carry a positive integer granularity. Any other token is a
// named scheme without parameter.
func ParseAddressMapping(token string) (AddressMapping, error) {
	t := strings.ToUpper(strings.TrimSpace(token))

	if rest, ok := strings.CutPrefix(t, mopPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return AddressMapping{}, &config.DerivationError{
				Domain: config.DomainDRAM,
				Field:  "address_mapping",
				Value:  token,
				Reason: "MOP granularity must be a positive integer",
			}
		}

		return AddressMapping{Scheme: mopPrefix, Granularity: n}, nil
	}

	if !schemeNamePattern.MatchString(t) {
		return AddressMapping{}, &config.InvalidEnumError{
			Domain: config.DomainDRAM,
			Field:  "address_mapping",
			Value:  token,
		}
	}

	return AddressMapping{Scheme: t}, nil
}
