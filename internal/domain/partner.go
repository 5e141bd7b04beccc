package domain

import "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"

// Partner is a sponsoring company.
type Partner struct {
	docstore.Model `bson:",inline"`
	PartnerID      int64          `json:"partner_id" bson:"partner_id"`
	CompanyName    string         `json:"company_name" bson:"company_name"`
	ShortName      string         `json:"short_name" bson:"short_name"`
	Website        string         `json:"website" bson:"website"`
	Fanpage        string         `json:"fanpage" bson:"fanpage"`
	Sponsorship    Sponsorship    `json:"sponsorship" bson:"sponsorship"`
	Package        string         `json:"package" bson:"package"`
	Logo           string         `json:"logo" bson:"logo"`
	Representative Representative `json:"representative" bson:"representative"`
	SortOrder      int            `json:"sort_order" bson:"sort_order"`
	IsActive       bool           `json:"is_active" bson:"is_active"`
	IsDelete       bool           `json:"is_delete" bson:"is_delete"`
}

// Sponsorship describes what a partner contributes.
type Sponsorship struct {
	Type   string  `json:"type" bson:"type"`
	Amount float64 `json:"amount" bson:"amount"`
	Detail string  `json:"detail" bson:"detail"`
}

// Representative is the partner's contact person.
type Representative struct {
	Title    string `json:"title" bson:"title"`
	Name     string `json:"name" bson:"name"`
	Position string `json:"position" bson:"position"`
	DOB      string `json:"dob" bson:"dob"`
	Facebook string `json:"facebook" bson:"facebook"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
}
