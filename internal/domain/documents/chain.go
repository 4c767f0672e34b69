package documents

import (
	"bizdesk/internal/core/numerator"
)

// types available per kind
var kindTypes = map[Kind][]Type{
	KindSales:    {TypeEstimate, TypeOrder, TypeDelivery, TypeInvoice, TypeIssue},
	KindPurchase: {TypeOrder, TypeDelivery, TypeInvoice},
}

// forward conversions per kind: source type -> allowed targets
var conversions = map[Kind]map[Type][]Type{
	KindSales: {
		TypeEstimate: {TypeOrder, TypeDelivery, TypeInvoice},
		TypeOrder:    {TypeDelivery, TypeInvoice},
		TypeDelivery: {TypeInvoice},
	},
	KindPurchase: {
		TypeOrder:    {TypeDelivery, TypeInvoice},
		TypeDelivery: {TypeInvoice},
	},
}

// number prefixes per kind and type
var prefixes = map[Kind]map[Type]string{
	KindSales: {
		TypeEstimate: "EST",
		TypeOrder:    "SO",
		TypeDelivery: "DN",
		TypeInvoice:  "INV",
		TypeIssue:    "ISS",
	},
	KindPurchase: {
		TypeOrder:    "PO",
		TypeDelivery: "GR",
		TypeInvoice:  "PINV",
	},
}

// TypeAllowed reports whether t exists on the given side.
func TypeAllowed(k Kind, t Type) bool {
	for _, allowed := range kindTypes[k] {
		if allowed == t {
			return true
		}
	}
	return false
}

// CanConvert reports whether a document of type from may be converted to type to.
func CanConvert(k Kind, from, to Type) bool {
	for _, allowed := range conversions[k][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Targets lists the types a document of type from may be converted to.
func Targets(k Kind, from Type) []Type {
	return append([]Type(nil), conversions[k][from]...)
}

// NumberConfig returns the numbering layout for a kind and type.
func NumberConfig(k Kind, t Type) numerator.Config {
	return numerator.DefaultConfig(prefixes[k][t])
}
