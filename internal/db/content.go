package db

import "time"

// Content 定义了文章模型
// Slug 只在首次保存时生成，之后即使标题变化也不会改变。
// Text 为经过清洗的 HTML，2000 字的可见字符上限由表单层校验，存储层不限制。
type Content struct {
	ID             uint      `gorm:"primaryKey"`
	Title          string    `gorm:"size:120;not null"`
	Slug           string    `gorm:"size:180;uniqueIndex;not null"`
	Text           string    `gorm:"type:text;not null"`
	DateTimeCreate time.Time `gorm:"index;not null"`
	DateTimeEdit   time.Time `gorm:"not null"`
	AuthorID       uint      `gorm:"index;not null"`
	Author         *Author   `gorm:"constraint:OnDelete:CASCADE"`
	IsPublished    bool      `gorm:"index;not null"`
}

// Comment 定义了评论模型
// 作者或文章被删除时对应外键置空，评论本身保留。
type Comment struct {
	ID             uint      `gorm:"primaryKey"`
	Text           string    `gorm:"size:500;not null"`
	DateTimeCreate time.Time `gorm:"not null"`
	AuthorID       *uint     `gorm:"index"`
	Author         *Author   `gorm:"constraint:OnDelete:SET NULL"`
	ContentID      *uint     `gorm:"index"`
	Content        *Content  `gorm:"constraint:OnDelete:SET NULL"`
}
