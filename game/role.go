package game

import (
	"fmt"
	"strings"
)

// Role is one of the four fixed positions in the supply chain.
// Orders flow upstream (Retailer -> Manufacturer); shipments flow downstream.
type Role int

const (
	Retailer Role = iota
	Wholesaler
	Distributor
	Manufacturer
)

// NumRoles is the fixed number of positions in a supply chain.
const NumRoles = 4

// AllRoles lists the roles in supply-chain order, Retailer first.
var AllRoles = [NumRoles]Role{Retailer, Wholesaler, Distributor, Manufacturer}

func (r Role) String() string {
	switch r {
	case Retailer:
		return "RETAILER"
	case Wholesaler:
		return "WHOLESALER"
	case Distributor:
		return "DISTRIBUTOR"
	case Manufacturer:
		return "MANUFACTURER"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	return r >= Retailer && r <= Manufacturer
}

// ParseRole converts a case-insensitive role name to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RETAILER":
		return Retailer, nil
	case "WHOLESALER":
		return Wholesaler, nil
	case "DISTRIBUTOR":
		return Distributor, nil
	case "MANUFACTURER":
		return Manufacturer, nil
	}
	return 0, Errorf(CodeBadRole, "unknown role %q", s)
}
