package admin

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/validation"
)

func TestParseListQuery(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)
	require.Equal(t, 1, q.Page)
	require.Equal(t, 10, q.Limit)

	q, err = ParseListQuery(url.Values{"page": {"2"}, "limit": {"5"}, "status": {"pending"}, "type": {"LAND"}, "search": {" ali "}})
	require.NoError(t, err)
	require.Equal(t, types.StatusPending, *q.Status)
	f := q.PropertiesFilter()
	require.Equal(t, 5, f.Offset)
	require.Equal(t, "ali", f.Search)
	require.Equal(t, 2, q.UsersFilter().Page)

	_, err = ParseListQuery(url.Values{"limit": {"0"}, "status": {"DELETED"}})
	var ve validation.Errors
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve, "limit")
	require.Contains(t, ve, "status")
}

func TestUpdateRoleRequest(t *testing.T) {
	r := UpdateRoleRequest{Role: " admin "}
	require.NoError(t, r.Validate())
	require.Equal(t, types.RoleAdmin, r.Role)
	require.Error(t, (&UpdateRoleRequest{Role: "ROOT"}).Validate())
}

func TestUpdateStatusRequest(t *testing.T) {
	r := UpdateStatusRequest{Status: "sold"}
	require.NoError(t, r.Validate())
	require.Equal(t, types.StatusSold, r.Status)
	require.Error(t, (&UpdateStatusRequest{}).Validate())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 21, ListQuery{Page: 1, Limit: 10})
	require.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Data, 2)
}
