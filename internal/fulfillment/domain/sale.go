package domain

// LinkMetadata es la metadata que el vendedor adjuntó al payment link.
type LinkMetadata struct {
	DownloadURL string
	AssetTitle  string
}

// SaleRecord es la venta resuelta: intent + metadata del link.
type SaleRecord struct {
	PaymentLinkID      string
	ConnectedAccountID string
	BuyerEmail         string
	DownloadURL        string
	AssetTitle         string
}

// Fulfillable indica si la venta puede cumplirse. Que falte el email del
// comprador o la URL de descarga es un estado de negocio legítimo (p.ej. el
// vendedor no adjuntó fichero), no un error.
func (r *SaleRecord) Fulfillable() bool {
	return r.BuyerEmail != "" && r.DownloadURL != ""
}
