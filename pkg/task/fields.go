package task

// Fields is a partial update. Nil members leave the task untouched. Setting
// ActualStart or ActualEnd to a pointer at the zero Date clears the value.
type Fields struct {
	Name           *string
	ParentID       *string
	Category       *string
	Subcategory    *string
	Subsubcategory *string
	Type           *Type

	PlanStart   *Date
	PlanEnd     *Date
	ActualStart *Date
	ActualEnd   *Date

	Progress    *int
	Cost        *float64
	Quantity    *string
	Responsible *string
	Status      *Status
	Order       *float64
	Color       *string
}

// Apply copies the set members onto t and refreshes the cached duration.
func (f Fields) Apply(t *Task) {
	if f.Name != nil {
		t.Name = *f.Name
	}
	if f.ParentID != nil {
		t.ParentID = *f.ParentID
	}
	if f.Category != nil {
		t.Category = *f.Category
	}
	if f.Subcategory != nil {
		t.Subcategory = *f.Subcategory
	}
	if f.Subsubcategory != nil {
		t.Subsubcategory = *f.Subsubcategory
	}
	if f.Type != nil {
		t.Type = *f.Type
	}
	if f.PlanStart != nil {
		t.PlanStart = *f.PlanStart
	}
	if f.PlanEnd != nil {
		t.PlanEnd = *f.PlanEnd
	}
	if f.ActualStart != nil {
		if f.ActualStart.IsZero() {
			t.ActualStart = nil
		} else {
			v := *f.ActualStart
			t.ActualStart = &v
		}
	}
	if f.ActualEnd != nil {
		if f.ActualEnd.IsZero() {
			t.ActualEnd = nil
		} else {
			v := *f.ActualEnd
			t.ActualEnd = &v
		}
	}
	if f.Progress != nil {
		t.Progress = *f.Progress
	}
	if f.Cost != nil {
		t.Cost = *f.Cost
	}
	if f.Quantity != nil {
		t.Quantity = *f.Quantity
	}
	if f.Responsible != nil {
		t.Responsible = *f.Responsible
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	if f.Order != nil {
		t.Order = *f.Order
	}
	if f.Color != nil {
		t.Color = *f.Color
	}
	t.PlanDuration = t.Duration()
}
