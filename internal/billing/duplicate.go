package billing

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"dealerops/internal/domain"
)

// NoServicesKey is the sentinel signature for an order with no services.
// It is itself groupable: two service-less orders with the same VIN collide.
const NoServicesKey = "NO_SERVICES"

const serviceDelimiter = "|"

// MatchKind identifies which identity field produced a duplicate match.
type MatchKind string

const (
	MatchVIN   MatchKind = "vin"
	MatchStock MatchKind = "stock_number"
	MatchTag   MatchKind = "tag"
)

// DuplicateFlags annotates one candidate order with its probable duplicates.
// Detection never removes anything; the include/exclude decision belongs to
// the operator.
type DuplicateFlags struct {
	HasVinDuplicate   bool        `json:"has_vin_duplicate"`
	VinCount          int         `json:"vin_count,omitempty"`
	VinPeers          []uuid.UUID `json:"vin_peers,omitempty"`
	HasStockDuplicate bool        `json:"has_stock_duplicate"`
	StockCount        int         `json:"stock_count,omitempty"`
	StockPeers        []uuid.UUID `json:"stock_peers,omitempty"`
	HasTagDuplicate   bool        `json:"has_tag_duplicate"`
	TagCount          int         `json:"tag_count,omitempty"`
	TagPeers          []uuid.UUID `json:"tag_peers,omitempty"`
	// Match summarizes the strongest match for the operator,
	// preferring VIN over stock over tag.
	Match MatchKind `json:"match,omitempty"`
}

// IsDuplicate reports whether any of the three indexes flagged the order.
func (f DuplicateFlags) IsDuplicate() bool {
	return f.HasVinDuplicate || f.HasStockDuplicate || f.HasTagDuplicate
}

// NormalizeServices reduces an order's service list to a canonical
// order-independent signature: each entry's token uppercased, sorted, and
// joined. Empty lists normalize to the NO_SERVICES sentinel.
func NormalizeServices(services domain.ServiceEntryList) string {
	tokens := make([]string, 0, len(services))
	for _, e := range services {
		if tok := e.Token(); tok != "" {
			tokens = append(tokens, strings.ToUpper(tok))
		}
	}
	if len(tokens) == 0 {
		return NoServicesKey
	}
	sort.Strings(tokens)
	return strings.Join(tokens, serviceDelimiter)
}

// compoundKey joins a normalized identity field with the service signature.
// Blank identity fields return "" and are excluded from that index.
func compoundKey(identity, services string) string {
	id := strings.ToUpper(strings.TrimSpace(identity))
	if id == "" {
		return ""
	}
	return id + "_" + services
}

// DetectDuplicates groups the candidate set by three independent compound
// keys (VIN, stock number, tag, each combined with the service signature)
// and flags every order whose group holds more than one member. The three
// checks are independent; an order can be a VIN duplicate without being a
// stock duplicate.
func DetectDuplicates(orders []domain.Order) map[uuid.UUID]DuplicateFlags {
	type index map[string][]uuid.UUID
	vinIdx, stockIdx, tagIdx := index{}, index{}, index{}
	keys := make(map[uuid.UUID][3]string, len(orders))

	for i := range orders {
		o := &orders[i]
		sig := NormalizeServices(o.Services)
		vk := compoundKey(o.VIN, sig)
		sk := compoundKey(o.StockNumber, sig)
		tk := compoundKey(o.Tag, sig)
		keys[o.ID] = [3]string{vk, sk, tk}
		if vk != "" {
			vinIdx[vk] = append(vinIdx[vk], o.ID)
		}
		if sk != "" {
			stockIdx[sk] = append(stockIdx[sk], o.ID)
		}
		if tk != "" {
			tagIdx[tk] = append(tagIdx[tk], o.ID)
		}
	}

	peers := func(group []uuid.UUID, self uuid.UUID) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(group)-1)
		for _, id := range group {
			if id != self {
				out = append(out, id)
			}
		}
		return out
	}

	flags := make(map[uuid.UUID]DuplicateFlags, len(orders))
	for i := range orders {
		o := &orders[i]
		k := keys[o.ID]
		var f DuplicateFlags

		if group := vinIdx[k[0]]; k[0] != "" && len(group) > 1 {
			f.HasVinDuplicate = true
			f.VinCount = len(group)
			f.VinPeers = peers(group, o.ID)
		}
		if group := stockIdx[k[1]]; k[1] != "" && len(group) > 1 {
			f.HasStockDuplicate = true
			f.StockCount = len(group)
			f.StockPeers = peers(group, o.ID)
		}
		if group := tagIdx[k[2]]; k[2] != "" && len(group) > 1 {
			f.HasTagDuplicate = true
			f.TagCount = len(group)
			f.TagPeers = peers(group, o.ID)
		}

		switch {
		case f.HasVinDuplicate:
			f.Match = MatchVIN
		case f.HasStockDuplicate:
			f.Match = MatchStock
		case f.HasTagDuplicate:
			f.Match = MatchTag
		}
		flags[o.ID] = f
	}
	return flags
}
