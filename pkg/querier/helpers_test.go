package querier

import (
	"fmt"
	"net/http"
	"testing"
)

func errorRequestf(t *testing.T, w http.ResponseWriter, format string, args ...interface{}) {
	str := fmt.Sprintf(format, args...)
	t.Error(str)
	http.Error(w, str, http.StatusInternalServerError)
}
