package db

import "time"

// Service 定义服务项目表
type Service struct {
	Base
	Slug      string `gorm:"size:120;uniqueIndex;not null"`
	Title     string `gorm:"size:200;not null"`
	Summary   string `gorm:"size:500"`
	Body      string `gorm:"type:text"`
	Icon      string `gorm:"size:200"`
	OrderNum  int    `gorm:"default:0;index"`
	Status    string `gorm:"size:20;default:draft;index"`
	CreatedBy string `gorm:"size:64"`
	UpdatedBy string `gorm:"size:64"`
}

// Project 定义案例作品表，Gallery 与 Tech 以 JSON 数组存储
type Project struct {
	Base
	Slug      string `gorm:"size:120;uniqueIndex;not null"`
	Title     string `gorm:"size:200;not null"`
	Client    string `gorm:"size:200"`
	Summary   string `gorm:"size:500"`
	Body      string `gorm:"type:text"`
	CoverURL  string
	Gallery   []string `gorm:"serializer:json"`
	Tech      []string `gorm:"serializer:json"`
	Featured  bool     `gorm:"default:false;index"`
	Status    string   `gorm:"size:20;default:draft;index"`
	CreatedBy string   `gorm:"size:64"`
	UpdatedBy string   `gorm:"size:64"`
}

// BlogPost 定义博客文章表
type BlogPost struct {
	Base
	Slug        string `gorm:"size:120;uniqueIndex;not null"`
	Title       string `gorm:"size:200;not null"`
	Excerpt     string `gorm:"size:500"`
	Body        string `gorm:"type:text"`
	CoverURL    string
	AuthorID    string   `gorm:"size:64;index"`
	Tags        []string `gorm:"serializer:json"`
	Featured    bool     `gorm:"default:false;index"`
	Status      string   `gorm:"size:20;default:draft;index"`
	Views       int64    `gorm:"default:0"`
	PublishedAt *time.Time
	CreatedBy   string `gorm:"size:64"`
	UpdatedBy   string `gorm:"size:64"`
}

// TeamMember 定义团队成员表
type TeamMember struct {
	Base
	Slug      string `gorm:"size:120;uniqueIndex;not null"`
	Name      string `gorm:"size:120;not null"`
	Role      string `gorm:"size:120"`
	Bio       string `gorm:"type:text"`
	PhotoURL  string
	Socials   map[string]string `gorm:"serializer:json"`
	OrderNum  int               `gorm:"default:0;index"`
	Status    string            `gorm:"size:20;default:published;index"`
	CreatedBy string            `gorm:"size:64"`
	UpdatedBy string            `gorm:"size:64"`
}

// FAQ 定义常见问题表，按分类分组展示
type FAQ struct {
	Base
	Category  string `gorm:"size:80;index;not null"`
	Question  string `gorm:"size:300;not null"`
	Answer    string `gorm:"type:text"`
	OrderNum  int    `gorm:"default:0"`
	Status    string `gorm:"size:20;default:published;index"`
	CreatedBy string `gorm:"size:64"`
	UpdatedBy string `gorm:"size:64"`
}

// TableName 避免 gorm 生成 f_a_qs。
func (FAQ) TableName() string {
	return "faqs"
}

// Media 定义媒体库表
type Media struct {
	Base
	URL       string `gorm:"not null"`
	Alt       string `gorm:"size:300"`
	Width     int
	Height    int
	Type      string `gorm:"size:100;index"`
	Folder    string `gorm:"size:80;default:general;index"`
	SizeBytes int64
	CreatedBy string `gorm:"size:64"`
}

// TableName 指定自定义表名。
func (Media) TableName() string {
	return "media"
}

// Lead 记录访客提交的咨询，仅允许新增与更新
type Lead struct {
	Base
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"size:254;not null;index"`
	Phone     string `gorm:"size:40"`
	Subject   string `gorm:"size:200"`
	Message   string `gorm:"type:text"`
	Source    string `gorm:"size:80"`
	Status    string `gorm:"size:20;default:new;index"`
	UpdatedBy string `gorm:"size:64"`
}

// Settings 为站点级单例配置。表上没有唯一约束，单例由仓储层的先查后写保证。
type Settings struct {
	Base
	SiteName     string            `gorm:"size:120"`
	Theme        string            `gorm:"size:20"`
	PrimaryColor string            `gorm:"size:20"`
	Social       map[string]string `gorm:"serializer:json"`
	Analytics    map[string]string `gorm:"serializer:json"`
	UpdatedBy    string            `gorm:"size:64"`
}

// TableName 指定自定义表名。
func (Settings) TableName() string {
	return "settings"
}
