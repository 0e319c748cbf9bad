package model

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(200);index;not null" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(200);not null" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
