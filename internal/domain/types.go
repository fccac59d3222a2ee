package domain

// Unspecified replaces every missing cell in the sheet.
const Unspecified = "ไม่ระบุ"

// Field identifies one of the filterable columns of a Box.
type Field string

const (
	FieldCategory Field = "category"
	FieldLocation Field = "location"
	FieldStatus   Field = "status"
	FieldDrug     Field = "drug"
	FieldBox      Field = "box"
)

// Fields lists the filterable columns in sidebar order.
var Fields = []Field{FieldCategory, FieldLocation, FieldStatus, FieldDrug, FieldBox}

// Box is one row of the tracking sheet: a single physical drug box.
type Box struct {
	Name     string
	Category string
	Location string
	// Drug is the drug in the box that expires first.
	Drug    string
	DayLeft int
	// Extra holds the remaining sheet columns keyed by header.
	Extra map[string]string
}

// Status derives the expiry status from DayLeft.
func (b *Box) Status() Status {
	return Classify(b.DayLeft)
}

// Value returns the box's value for a filterable field.
func (b *Box) Value(f Field) string {
	switch f {
	case FieldCategory:
		return b.Category
	case FieldLocation:
		return b.Location
	case FieldStatus:
		return string(b.Status())
	case FieldDrug:
		return b.Drug
	case FieldBox:
		return b.Name
	default:
		return ""
	}
}
