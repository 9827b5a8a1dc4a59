package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("leagues").
		Where(Eq("league_code", "AB12CD"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT id, name FROM leagues WHERE league_code = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10", query)
	require.Equal(t, []any{"AB12CD"}, args)
}

func TestSelectBuilder_LteAndSuffix(t *testing.T) {
	query, args, err := Select("public_id").
		From("drafts").
		Where(Eq("status", "active"), Lte("auction_end", "2026-08-20")).
		Limit(64).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT public_id FROM drafts WHERE status = $1 AND auction_end <= $2 LIMIT 64 FOR UPDATE SKIP LOCKED", query)
	require.Len(t, args, 2)
}

func TestSelectBuilder_ILike(t *testing.T) {
	query, args, err := Select("public_id", "full_name").
		From("players").
		Where(ILike("full_name", "%mahomes%")).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT public_id, full_name FROM players WHERE full_name ILIKE $1", query)
	require.Equal(t, []any{"%mahomes%"}, args)
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("league_members").
		Columns("league_public_id", "user_id").
		Values("league-1", "user-1").
		Suffix("RETURNING id").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO league_members (league_public_id, user_id) VALUES ($1, $2) RETURNING id", query)
	require.Equal(t, []any{"league-1", "user-1"}, args)
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("drafts").
		Set("status", "active").
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "draft-1"), Eq("version", int64(3))).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "UPDATE drafts SET status = $1, version = version + 1, updated_at = NOW() WHERE public_id = $2 AND version = $3", query)
	require.Equal(t, []any{"active", "draft-1", int64(3)}, args)
}

func TestInsertModel(t *testing.T) {
	type row struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
		ignored  string `db:"secret"`
	}

	query, args, err := InsertModel("teams", row{PublicID: "team-1", Name: "alice's Team"}, "")
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO teams (public_id, name) VALUES ($1, $2)", query)
	require.Equal(t, []any{"team-1", "alice's Team"}, args)
}

func TestInsertModel_EmbeddedFields(t *testing.T) {
	type Audit struct {
		CreatedAt string `db:"created_at"`
	}
	type row struct {
		PublicID string `db:"public_id"`
		Audit
	}

	query, args, err := InsertModel("teams", &row{PublicID: "team-1", Audit: Audit{CreatedAt: "now"}}, "")
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO teams (public_id, created_at) VALUES ($1, $2)", query)
	require.Len(t, args, 2)
}

func TestInsertModel_RejectsTagless(t *testing.T) {
	type row struct {
		Name string
	}

	_, _, err := InsertModel("teams", row{Name: "x"}, "")
	require.Error(t, err)
}
