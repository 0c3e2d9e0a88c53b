package db

// Code is a country code shipments can be sent to
type Code struct {
	UUID uint   `gorm:"column:uuid;primaryKey;autoIncrement" json:"uuid"`
	Code string `gorm:"column:code;size:2;not null;uniqueIndex" json:"code"`
	Name string `gorm:"column:name;size:100;not null" json:"name"`
}

func (Code) TableName() string { return "codes" }

// City is a shipping destination
type City struct {
	UUID        uint    `gorm:"column:uuid;primaryKey;autoIncrement" json:"uuid"`
	CountryCode string  `gorm:"column:country_code;size:2;not null;index:idx_cities_code_name" json:"code"`
	City        string  `gorm:"column:city;size:100;not null" json:"city"`
	Name        string  `gorm:"column:name;size:100;not null;index:idx_cities_code_name" json:"name"`
	Region      string  `gorm:"column:region;size:100" json:"region"`
	Latitude    float64 `gorm:"column:latitude" json:"latitude"`
	Longitude   float64 `gorm:"column:longitude" json:"longitude"`
}

func (City) TableName() string { return "cities" }
