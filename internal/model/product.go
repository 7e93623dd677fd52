package model

// Collection names in the remote document store. The local snapshot store
// reuses the same keys so a collection persists under one stable name.
const (
	CollProducts   = "products"
	CollClients    = "clients"
	CollCategories = "categories"
	CollPromotions = "promotions"
	CollZones      = "zones"
	CollVendors    = "vendors"
	CollSales      = "sales"
	CollRoutes     = "routes"
)

// Product is a sellable item. Stock is a pointer because legacy documents may
// omit it entirely; nil means unknown, never zero.
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	UnitPrice          float64  `json:"unitPrice"`
	UnitCost           float64  `json:"unitCost"`
	Stock              *int     `json:"stock,omitempty"`
	CategoryID         string   `json:"categoryId"`
	SpecificCommission *float64 `json:"specificCommission,omitempty"`
}

// Category is reference data, refreshed wholesale on every sync.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone groups clients geographically and is assigned to vendors.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vendor ranks. The rank decides which collections a sync fetches and which
// realtime subscriptions are established.
const (
	RankSeller   = "Seller"
	RankDelivery = "Delivery"
	RankAdmin    = "Admin"
)

// Vendor is a sales or delivery person. AuthUID links the document to the
// authenticated identity; legacy documents miss it and are looked up by
// document id instead (and then backfilled).
type Vendor struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Rank                  string   `json:"rank"`
	AssignedZoneIDs       []string `json:"assignedZoneIds"`
	GeneralCommissionRate float64  `json:"generalCommissionRate"`
	AuthUID               string   `json:"authUid,omitempty"`
	PasswordHash          string   `json:"-"`
}
