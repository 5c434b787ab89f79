package model

// FAQ is a question/answer pair grouped by category.
type FAQ struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	OrderNum int    `json:"order_num"`
	Status   string `json:"status"`
	Audit
}

type CreateFAQInput struct {
	Category string `json:"category" validate:"required,max=80"`
	Question string `json:"question" validate:"required,max=300"`
	Answer   string `json:"answer" validate:"required"`
	OrderNum int    `json:"order_num" validate:"gte=0"`
	Status   string `json:"status" validate:"oneof=draft published"`
}

func (in CreateFAQInput) Normalize() CreateFAQInput {
	in.Category = trim(in.Category)
	in.Question = trim(in.Question)
	in.Answer = trim(in.Answer)
	in.Status = defaultStatus(in.Status, StatusPublished)
	return in
}

func (in CreateFAQInput) Validate() error { return validate(in) }

type UpdateFAQInput struct {
	Category *string `json:"category" validate:"omitempty,min=1,max=80"`
	Question *string `json:"question" validate:"omitempty,min=1,max=300"`
	Answer   *string `json:"answer" validate:"omitempty,min=1"`
	OrderNum *int    `json:"order_num" validate:"omitempty,gte=0"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in UpdateFAQInput) Normalize() UpdateFAQInput {
	in.Category = trimPtr(in.Category)
	in.Question = trimPtr(in.Question)
	in.Answer = trimPtr(in.Answer)
	in.Status = trimPtr(in.Status)
	return in
}

func (in UpdateFAQInput) Validate() error { return validate(in) }

// FAQFilter narrows FAQ listings. Search matches question and answer.
type FAQFilter struct {
	ListFilter
	Category string `json:"category,omitempty" form:"category"`
}

// FAQGroup is one category with its entries in display order.
type FAQGroup struct {
	Category string `json:"category"`
	Items    []FAQ  `json:"items"`
}

// GroupFAQs groups already ordered FAQs by category, keeping first-seen order.
func GroupFAQs(items []FAQ) []FAQGroup {
	groups := make([]FAQGroup, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, FAQGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
