/*
snapshot.go - Snapshot container and id indexes

PURPOSE:
  A Snapshot is the full entity set handed to the engines as one immutable
  unit: reference data, the batch list (source of truth), the supply-chain
  collections, and the derived production rollup. Engines never write back
  to it.

INDEXES:
  A single trace query performs many by-id lookups, so an Index builds the
  id -> record maps once per snapshot and is shared across queries. The
  maps are explicit values passed into the engines - never ambient state.

SEE ALSO:
  - store.go: the load/save boundary for snapshots
  - trace/:   consumes Index
*/
package model

// Snapshot is the complete immutable data set for one generation.
type Snapshot struct {
	GeneratedAt string `json:"generated_at"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`

	Machines []Machine `json:"machines"`
	Shifts   []Shift   `json:"shifts"`

	// Derived view. Reconstructible from ProductionBatches at any time.
	Production Production `json:"production"`

	Suppliers         []Supplier        `json:"suppliers"`
	MaterialsCatalog  []MaterialSpec    `json:"materials_catalog"`
	MaterialLots      []MaterialLot     `json:"material_lots"`
	Orders            []Order           `json:"orders"`
	ProductionBatches []ProductionBatch `json:"production_batches"`
}

// Index holds by-id lookup maps over one snapshot. Build it once per
// snapshot generation and share it across concurrent queries; it is
// read-only after construction.
type Index struct {
	Snapshot *Snapshot

	SupplierByID   map[SupplierID]*Supplier
	MaterialByID   map[MaterialID]*MaterialSpec
	LotByNumber    map[LotNumber]*MaterialLot
	OrderByID      map[OrderID]*Order
	BatchByID      map[BatchID]*ProductionBatch
	LotsBySupplier map[SupplierID][]*MaterialLot
	BatchesByOrder map[OrderID][]*ProductionBatch
}

// NewIndex builds the lookup maps for a snapshot.
func NewIndex(s *Snapshot) *Index {
	idx := &Index{
		Snapshot:       s,
		SupplierByID:   make(map[SupplierID]*Supplier, len(s.Suppliers)),
		MaterialByID:   make(map[MaterialID]*MaterialSpec, len(s.MaterialsCatalog)),
		LotByNumber:    make(map[LotNumber]*MaterialLot, len(s.MaterialLots)),
		OrderByID:      make(map[OrderID]*Order, len(s.Orders)),
		BatchByID:      make(map[BatchID]*ProductionBatch, len(s.ProductionBatches)),
		LotsBySupplier: make(map[SupplierID][]*MaterialLot),
		BatchesByOrder: make(map[OrderID][]*ProductionBatch),
	}
	for i := range s.Suppliers {
		sup := &s.Suppliers[i]
		idx.SupplierByID[sup.ID] = sup
	}
	for i := range s.MaterialsCatalog {
		mat := &s.MaterialsCatalog[i]
		idx.MaterialByID[mat.ID] = mat
	}
	for i := range s.MaterialLots {
		lot := &s.MaterialLots[i]
		idx.LotByNumber[lot.LotNumber] = lot
		idx.LotsBySupplier[lot.SupplierID] = append(idx.LotsBySupplier[lot.SupplierID], lot)
	}
	for i := range s.Orders {
		o := &s.Orders[i]
		idx.OrderByID[o.ID] = o
	}
	for i := range s.ProductionBatches {
		b := &s.ProductionBatches[i]
		idx.BatchByID[b.BatchID] = b
		if b.OrderID != "" {
			idx.BatchesByOrder[b.OrderID] = append(idx.BatchesByOrder[b.OrderID], b)
		}
	}
	return idx
}
