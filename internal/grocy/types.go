package grocy

import "time"

// TimestampLayout is the ISO-8601 layout with millisecond fractions that
// Grocy accepts for row_created_timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ObjectKind names a Grocy entity as used in /api/objects/{kind}.
type ObjectKind string

const (
	KindQuantityUnits           ObjectKind = "quantity_units"
	KindQuantityUnitConversions ObjectKind = "quantity_unit_conversions"
	KindProducts                ObjectKind = "products"
	KindLocations               ObjectKind = "locations"
	KindShoppingLocations       ObjectKind = "shopping_locations"
	KindProductGroups           ObjectKind = "product_groups"
	KindChores                  ObjectKind = "chores"
	KindBatteries               ObjectKind = "batteries"
	KindTaskCategories          ObjectKind = "task_categories"
)

// NamedKinds lists the master-data kinds that are browsed as plain name lists.
var NamedKinds = []ObjectKind{
	KindProducts,
	KindLocations,
	KindShoppingLocations,
	KindProductGroups,
	KindChores,
	KindBatteries,
	KindTaskCategories,
}

// QuantityUnit mirrors a quantity_units row.
type QuantityUnit struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	NamePlural          string `json:"name_plural"`
	Description         string `json:"description"`
	RowCreatedTimestamp string `json:"row_created_timestamp"`
}

// QuantityUnitConversion mirrors a quantity_unit_conversions row.
type QuantityUnitConversion struct {
	ID                  int     `json:"id"`
	FromQuID            int     `json:"from_qu_id"`
	ToQuID              int     `json:"to_qu_id"`
	Factor              float64 `json:"factor"`
	ProductID           *int    `json:"product_id,omitempty"`
	RowCreatedTimestamp string  `json:"row_created_timestamp"`
}

// NamedObject is the shape shared by the simple master-data tables.
type NamedObject struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatedResponse is returned by POST /api/objects/{kind}.
type CreatedResponse struct {
	CreatedObjectID int `json:"created_object_id"`
}

type dbChangedTimeResponse struct {
	ChangedTime string `json:"changed_time"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// Timestamp formats t the way Grocy stores row creation times.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTime accepts the timestamp flavours Grocy emits.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(time.DateTime, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
