package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibespace/internal/apperrors"
	"vibespace/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCreateDatabaseDefaultsName(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)

	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "   "})

	assert.Equal(t, "New Database", db.Name)
	assert.NotEmpty(t, db.ID)
	assert.Contains(t, dbs, db.ID)
}

func TestUpdateDatabaseBlankNameFallsBack(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})

	svc.UpdateDatabase(db, DatabasePatch{Name: strPtr("   ")})
	assert.Equal(t, "Shop", db.Name)

	svc.UpdateDatabase(db, DatabasePatch{Name: strPtr("  Store ")})
	assert.Equal(t, "Store", db.Name)

	// omitted fields keep their prior value
	svc.UpdateDatabase(db, DatabasePatch{Note: strPtr("a note")})
	assert.Equal(t, "Store", db.Name)
	assert.Equal(t, "a note", db.Note)
}

func TestDeleteDatabaseNotFound(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)

	err := svc.DeleteDatabase(dbs, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestColumnOrderIncreasesMonotonically(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	table := svc.CreateTable(db, CreateTableRequest{Name: "Users"})

	for i := 0; i < 5; i++ {
		col, err := svc.CreateColumn(db, table.ID, CreateColumnRequest{Name: "c"})
		require.NoError(t, err)
		assert.Equal(t, i, col.Order)
	}
}

func TestCreateColumnDefaults(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	table := svc.CreateTable(db, CreateTableRequest{Name: "Users"})

	col, err := svc.CreateColumn(db, table.ID, CreateColumnRequest{})
	require.NoError(t, err)
	assert.Equal(t, "column", col.Name)
	assert.Equal(t, "TEXT", col.Datatype)
	assert.True(t, col.IsNullable)
	assert.False(t, col.IsPrimary)
	assert.Nil(t, col.ForeignRef)
}

func TestCreateColumnRejectsIncompleteForeignRef(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	table := svc.CreateTable(db, CreateTableRequest{Name: "Users"})

	// only a table_id: the ref is silently dropped
	col, err := svc.CreateColumn(db, table.ID, CreateColumnRequest{
		Name:       "user_id",
		ForeignRef: &ForeignRefInput{TableID: "sometable"},
	})
	require.NoError(t, err)
	assert.Nil(t, col.ForeignRef)

	// both ids: accepted even though they resolve to nothing
	col2, err := svc.CreateColumn(db, table.ID, CreateColumnRequest{
		Name:       "order_id",
		ForeignRef: &ForeignRefInput{TableID: "ghost-table", ColumnID: "ghost-col"},
	})
	require.NoError(t, err)
	require.NotNil(t, col2.ForeignRef)
	assert.Equal(t, "ghost-table", col2.ForeignRef.TableID)
}

func TestUpdateColumnForeignRefTriState(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	users := svc.CreateTable(db, CreateTableRequest{Name: "Users"})
	userID, err := svc.CreateColumn(db, users.ID, CreateColumnRequest{Name: "id"})
	require.NoError(t, err)
	orders := svc.CreateTable(db, CreateTableRequest{Name: "Orders"})
	fkCol, err := svc.CreateColumn(db, orders.ID, CreateColumnRequest{
		Name:       "user_id",
		ForeignRef: &ForeignRefInput{TableID: users.ID, ColumnID: userID.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, fkCol.ForeignRef)

	// absent: ref untouched
	_, err = svc.UpdateColumn(db, orders.ID, fkCol.ID, ColumnPatch{Note: strPtr("n")})
	require.NoError(t, err)
	assert.NotNil(t, fkCol.ForeignRef)

	// incomplete object: ignored
	_, err = svc.UpdateColumn(db, orders.ID, fkCol.ID, ColumnPatch{
		ForeignRef: json.RawMessage(`{"table_id":"only-table"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, users.ID, fkCol.ForeignRef.TableID)

	// null: cleared
	_, err = svc.UpdateColumn(db, orders.ID, fkCol.ID, ColumnPatch{
		ForeignRef: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.Nil(t, fkCol.ForeignRef)
}

func TestUpdateColumnDefaultNullClears(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	table := svc.CreateTable(db, CreateTableRequest{Name: "Users"})
	col, err := svc.CreateColumn(db, table.ID, CreateColumnRequest{Name: "id", Default: strPtr("0")})
	require.NoError(t, err)
	require.NotNil(t, col.Default)

	_, err = svc.UpdateColumn(db, table.ID, col.ID, ColumnPatch{Default: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Nil(t, col.Default)

	_, err = svc.UpdateColumn(db, table.ID, col.ID, ColumnPatch{Default: json.RawMessage(`"now()"`)})
	require.NoError(t, err)
	require.NotNil(t, col.Default)
	assert.Equal(t, "now()", *col.Default)
}

func TestDeleteTableScrubsReferences(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})

	users := svc.CreateTable(db, CreateTableRequest{Name: "Users"})
	userID, err := svc.CreateColumn(db, users.ID, CreateColumnRequest{Name: "id"})
	require.NoError(t, err)

	orders := svc.CreateTable(db, CreateTableRequest{Name: "Orders"})
	orderID, err := svc.CreateColumn(db, orders.ID, CreateColumnRequest{Name: "id"})
	require.NoError(t, err)
	fkCol, err := svc.CreateColumn(db, orders.ID, CreateColumnRequest{
		Name:       "user_id",
		ForeignRef: &ForeignRefInput{TableID: users.ID, ColumnID: userID.ID},
	})
	require.NoError(t, err)

	_, err = svc.CreateLink(db, CreateLinkRequest{FromType: models.NodeTable, FromID: users.ID, ToType: models.NodeTable, ToID: orders.ID})
	require.NoError(t, err)
	_, err = svc.CreateLink(db, CreateLinkRequest{FromType: models.NodeColumn, FromID: userID.ID, ToType: models.NodeColumn, ToID: fkCol.ID})
	require.NoError(t, err)
	survivor, err := svc.CreateLink(db, CreateLinkRequest{FromType: models.NodeColumn, FromID: orderID.ID, ToType: models.NodeColumn, ToID: fkCol.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTable(db, users.ID))

	assert.NotContains(t, db.Tables, users.ID)
	// only the link with no Users endpoint survives
	require.Len(t, db.Links, 1)
	assert.Contains(t, db.Links, survivor.ID)
	// the foreign ref pointing into Users was scrubbed
	assert.Nil(t, fkCol.ForeignRef)
}

func TestDeleteColumnScrubsReferences(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})

	users := svc.CreateTable(db, CreateTableRequest{Name: "Users"})
	userID, err := svc.CreateColumn(db, users.ID, CreateColumnRequest{Name: "id"})
	require.NoError(t, err)
	orders := svc.CreateTable(db, CreateTableRequest{Name: "Orders"})
	fkCol, err := svc.CreateColumn(db, orders.ID, CreateColumnRequest{
		Name:       "user_id",
		ForeignRef: &ForeignRefInput{TableID: users.ID, ColumnID: userID.ID},
	})
	require.NoError(t, err)
	_, err = svc.CreateLink(db, CreateLinkRequest{FromType: models.NodeColumn, FromID: userID.ID, ToType: models.NodeTable, ToID: orders.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteColumn(db, users.ID, userID.ID))

	assert.Empty(t, db.Links)
	assert.NotContains(t, users.Columns, userID.ID)
	assert.Nil(t, fkCol.ForeignRef)
}

func TestCreateLinkRequiresEndpoints(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})

	_, err := svc.CreateLink(db, CreateLinkRequest{FromID: "a"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateLink(db, CreateLinkRequest{ToID: "b"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	link, err := svc.CreateLink(db, CreateLinkRequest{FromID: "a", ToID: "b"})
	require.NoError(t, err)
	assert.Equal(t, models.NodeTable, link.FromType)
	assert.Equal(t, models.NodeTable, link.ToType)
}

func TestTableAndColumnNotFound(t *testing.T) {
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})
	table := svc.CreateTable(db, CreateTableRequest{Name: "Users"})

	err := svc.DeleteTable(db, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.UpdateTable(db, "missing", TablePatch{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.DeleteColumn(db, table.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.CreateColumn(db, "missing", CreateColumnRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.DeleteLink(db, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
