package model

type QualityCheck struct {
	CheckID     uint64  `gorm:"column:check_id;primaryKey;autoIncrement"`
	Branch      string  `gorm:"column:branch;type:text;not null;index:idx_branch_created_at,priority:1"`
	ChefName    string  `gorm:"column:chef_name;type:text;not null;index:idx_triple_created_at,priority:1"`
	DishName    string  `gorm:"column:dish_name;type:text;not null;index:idx_triple_created_at,priority:2"`
	Score       int     `gorm:"column:score;not null"`
	Notes       string  `gorm:"column:notes;type:text;not null;default:''"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null;index:idx_branch_created_at,priority:2;index:idx_triple_created_at,priority:3"`
	SubmittedBy *string `gorm:"column:submitted_by;type:text"`
}

func (QualityCheck) TableName() string {
	return "quality_checks"
}
