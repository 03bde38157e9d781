package fred

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/oshokin/frb/internal/logger"
)

// Params holds named query parameters for one call.
//
// Values may be strings, integers, floats, bools, time.Time (sent as 2006-01-02),
// []string (joined with ";", the tag list separator) or any fmt.Stringer.
// Nil values, empty strings, empty lists and zero times count as not supplied.
type Params map[string]any

// tagSeparator joins list values such as tag_names.
const tagSeparator = ";"

// Clone returns a shallow copy of p. A nil p yields an empty map.
func (p Params) Clone() Params {
	clone := make(Params, len(p)+1)
	for name, value := range p {
		clone[name] = value
	}

	return clone
}

// collectParams copies the supplied arguments whose names are allowed.
// Other names are skipped without error.
func collectParams(ctx context.Context, allowed sets.Set[string], args Params) url.Values {
	values := make(url.Values, len(args))

	var ignored []string

	for name, value := range args {
		if !allowed.Has(name) {
			ignored = append(ignored, name)

			continue
		}

		rendered, supplied := renderValue(value)
		if !supplied {
			continue
		}

		values.Set(name, rendered)
	}

	if len(ignored) > 0 {
		slices.Sort(ignored)
		logger.Debugf(ctx, "Ignoring parameters not accepted by the endpoint: %s", strings.Join(ignored, ", "))
	}

	return values
}

// renderValue converts a parameter value to its query string form.
// The second result is false when the value counts as not supplied.
func renderValue(value any) (string, bool) {
	var rendered string

	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		rendered = typed
	case []string:
		rendered = strings.Join(typed, tagSeparator)
	case time.Time:
		if typed.IsZero() {
			return "", false
		}

		rendered = typed.Format(time.DateOnly)
	case bool:
		rendered = strconv.FormatBool(typed)
	case int:
		rendered = formatSigned(typed)
	case int8:
		rendered = formatSigned(typed)
	case int16:
		rendered = formatSigned(typed)
	case int32:
		rendered = formatSigned(typed)
	case int64:
		rendered = formatSigned(typed)
	case uint:
		rendered = formatUnsigned(typed)
	case uint8:
		rendered = formatUnsigned(typed)
	case uint16:
		rendered = formatUnsigned(typed)
	case uint32:
		rendered = formatUnsigned(typed)
	case uint64:
		rendered = formatUnsigned(typed)
	case float32:
		rendered = formatFloat(typed, 32)
	case float64:
		rendered = formatFloat(typed, 64)
	case fmt.Stringer:
		rendered = typed.String()
	default:
		rendered = fmt.Sprint(typed)
	}

	return rendered, rendered != ""
}

func formatSigned[T constraints.Signed](value T) string {
	return strconv.FormatInt(int64(value), 10)
}

func formatUnsigned[T constraints.Unsigned](value T) string {
	return strconv.FormatUint(uint64(value), 10)
}

func formatFloat[T constraints.Float](value T, bitSize int) string {
	return strconv.FormatFloat(float64(value), 'f', -1, bitSize)
}
