// pkg/converter/values.go
package converter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleaner/pkg/model"
)

// FromCell converts a text cell (CSV) into a Value.
// Cells matching a configured null token become null; everything else stays text.
func (c *ValueConverter) FromCell(cell string) model.Value {
	if c.isNullToken(cell) {
		return model.Null()
	}
	return model.Text(cell)
}

// FromRaw converts a value scanned from database/sql into a Value
func (c *ValueConverter) FromRaw(raw interface{}) model.Value {
	switch v := raw.(type) {
	case nil:
		return model.Null()
	case string:
		if v == "" && c.config.EmptyStringAsNull {
			return model.Null()
		}
		return model.Text(v)
	case []byte:
		if len(v) == 0 && c.config.EmptyStringAsNull {
			return model.Null()
		}
		return model.Text(string(v))
	case int:
		return model.Number(float64(v))
	case int8:
		return model.Number(float64(v))
	case int16:
		return model.Number(float64(v))
	case int32:
		return model.Number(float64(v))
	case int64:
		return model.Number(float64(v))
	case uint:
		return model.Number(float64(v))
	case uint8:
		return model.Number(float64(v))
	case uint16:
		return model.Number(float64(v))
	case uint32:
		return model.Number(float64(v))
	case uint64:
		return model.Number(float64(v))
	case float32:
		return model.Number(float64(v))
	case float64:
		return model.Number(v)
	case bool:
		return model.Text(strconv.FormatBool(v))
	case time.Time:
		return model.Time(v)
	default:
		// Try JSON marshaling for complex types
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			c.logger.Debug("Falling back to fmt for unknown value type",
				zap.String("type", fmt.Sprintf("%T", v)),
				zap.Error(err))
			return model.Text(fmt.Sprintf("%v", v))
		}
		return model.Text(string(jsonBytes))
	}
}

// Format renders a value for text output. Null renders as an empty cell.
func (c *ValueConverter) Format(v model.Value) string {
	if t, ok := v.TimeValue(); ok {
		if isMidnight(t) {
			return t.Format(c.config.DateLayout)
		}
		return t.Format(c.config.TimestampLayout)
	}
	return v.String()
}

// isNullToken determines if a text cell should be treated as NULL
func (c *ValueConverter) isNullToken(cell string) bool {
	for _, token := range c.config.NullTokens {
		if cell == token {
			return true
		}
	}
	return false
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
