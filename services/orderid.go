package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewOrderID returns an id of the form order_<unixSeconds>_<uuid>. The
// timestamp keeps ids roughly sortable in gateway dashboards; the uuid suffix
// keeps them unique under load.
func NewOrderID() string {
	return fmt.Sprintf("order_%d_%s", time.Now().Unix(), uuid.NewString())
}
