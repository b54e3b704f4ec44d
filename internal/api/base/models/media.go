package models

// MediaAsset là tham chiếu tới một object trên media host
type MediaAsset struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// IsZero cho biết asset chưa được gán
func (m MediaAsset) IsZero() bool {
	return m.URL == "" && m.PublicID == ""
}
