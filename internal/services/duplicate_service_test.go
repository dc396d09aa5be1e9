package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibespace/internal/models"
)

// buildShopDatabase sets up the canonical fixture: Users(id) and
// Orders(id, user_id -> Users.id) with a column link between the two.
func buildShopDatabase(t *testing.T) (*models.Database, *models.Table, *models.Table) {
	t.Helper()
	svc := NewSchemaService()
	dbs := make(map[string]*models.Database)
	db := svc.CreateDatabase(dbs, CreateDatabaseRequest{Name: "Shop"})

	users := svc.CreateTable(db, CreateTableRequest{Name: "Users"})
	userID, err := svc.CreateColumn(db, users.ID, CreateColumnRequest{Name: "id", Datatype: "INT"})
	require.NoError(t, err)

	orders := svc.CreateTable(db, CreateTableRequest{Name: "Orders"})
	_, err = svc.CreateColumn(db, orders.ID, CreateColumnRequest{Name: "id", Datatype: "INT"})
	require.NoError(t, err)
	fkCol, err := svc.CreateColumn(db, orders.ID, CreateColumnRequest{
		Name:       "user_id",
		Datatype:   "INT",
		ForeignRef: &ForeignRefInput{TableID: users.ID, ColumnID: userID.ID},
	})
	require.NoError(t, err)

	_, err = svc.CreateLink(db, CreateLinkRequest{
		FromType: models.NodeColumn, FromID: userID.ID,
		ToType: models.NodeColumn, ToID: fkCol.ID,
	})
	require.NoError(t, err)
	return db, users, orders
}

func findTableByName(db *models.Database, name string) *models.Table {
	for _, tb := range db.Tables {
		if tb.Name == name {
			return tb
		}
	}
	return nil
}

func findColumnByName(tb *models.Table, name string) *models.Column {
	for _, c := range tb.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestDuplicateRemapsForeignRefs(t *testing.T) {
	src, _, _ := buildShopDatabase(t)
	dup := NewDuplicateService().Duplicate(src)

	assert.Equal(t, "Shop (copy)", dup.Name)
	assert.NotEqual(t, src.ID, dup.ID)

	copyUsers := findTableByName(dup, "Users")
	copyOrders := findTableByName(dup, "Orders")
	require.NotNil(t, copyUsers)
	require.NotNil(t, copyOrders)

	copyUserID := findColumnByName(copyUsers, "id")
	copyFK := findColumnByName(copyOrders, "user_id")
	require.NotNil(t, copyUserID)
	require.NotNil(t, copyFK)

	require.NotNil(t, copyFK.ForeignRef)
	assert.Equal(t, copyUsers.ID, copyFK.ForeignRef.TableID)
	assert.Equal(t, copyUserID.ID, copyFK.ForeignRef.ColumnID)
}

func TestDuplicateIsomorphicAndIdentityDisjoint(t *testing.T) {
	src, _, _ := buildShopDatabase(t)
	dup := NewDuplicateService().Duplicate(src)

	assert.Len(t, dup.Tables, len(src.Tables))
	assert.Len(t, dup.Links, len(src.Links))

	srcIDs := make(map[string]bool)
	srcIDs[src.ID] = true
	for tid, tb := range src.Tables {
		srcIDs[tid] = true
		for cid := range tb.Columns {
			srcIDs[cid] = true
		}
	}
	for lid := range src.Links {
		srcIDs[lid] = true
	}

	assert.False(t, srcIDs[dup.ID])
	copyColumns := make(map[string]bool)
	for tid, tb := range dup.Tables {
		assert.False(t, srcIDs[tid])
		srcTable := findTableByName(src, tb.Name)
		require.NotNil(t, srcTable)
		assert.Len(t, tb.Columns, len(srcTable.Columns))
		for cid, c := range tb.Columns {
			assert.False(t, srcIDs[cid])
			copyColumns[cid] = true
			if c.ForeignRef != nil {
				assert.Contains(t, dup.Tables, c.ForeignRef.TableID)
			}
		}
	}
	for lid, l := range dup.Links {
		assert.False(t, srcIDs[lid])
		// every endpoint of the Shop fixture maps inside the copy
		assert.True(t, copyColumns[l.FromID] || l.FromType == models.NodeTable)
		assert.True(t, copyColumns[l.ToID] || l.ToType == models.NodeTable)
	}
}

func TestDuplicatePreservesColumnScalars(t *testing.T) {
	src, users, _ := buildShopDatabase(t)
	srcCol := findColumnByName(users, "id")
	srcCol.IsPrimary = true
	srcCol.IsNullable = false
	def := "0"
	srcCol.Default = &def
	srcCol.Note = "pk"

	dup := NewDuplicateService().Duplicate(src)
	copyCol := findColumnByName(findTableByName(dup, "Users"), "id")
	require.NotNil(t, copyCol)
	assert.True(t, copyCol.IsPrimary)
	assert.False(t, copyCol.IsNullable)
	require.NotNil(t, copyCol.Default)
	assert.Equal(t, "0", *copyCol.Default)
	assert.Equal(t, "pk", copyCol.Note)
	assert.Equal(t, srcCol.Order, copyCol.Order)
}

func TestDuplicateDropsDanglingForeignRef(t *testing.T) {
	src, _, orders := buildShopDatabase(t)
	fk := findColumnByName(orders, "user_id")
	fk.ForeignRef = &models.ForeignRef{TableID: "ghost-table", ColumnID: "ghost-col"}

	dup := NewDuplicateService().Duplicate(src)
	copyFK := findColumnByName(findTableByName(dup, "Orders"), "user_id")
	require.NotNil(t, copyFK)
	assert.Nil(t, copyFK.ForeignRef)
}

func TestDuplicateUnmappedLinkEndpointPassesThrough(t *testing.T) {
	src, _, _ := buildShopDatabase(t)
	src.Links["stray"] = &models.Link{
		ID:       "stray",
		FromType: models.NodeTable,
		FromID:   "ghost-table",
		ToType:   models.NodeColumn,
		ToID:     "ghost-col",
	}

	dup := NewDuplicateService().Duplicate(src)

	var stray *models.Link
	for _, l := range dup.Links {
		if l.FromID == "ghost-table" {
			stray = l
		}
	}
	require.NotNil(t, stray)
	assert.Equal(t, "ghost-col", stray.ToID)
	assert.NotEqual(t, "stray", stray.ID)
}

func TestDuplicateEmptyDatabase(t *testing.T) {
	src := models.NewDatabase("src1", "Empty")
	dup := NewDuplicateService().Duplicate(src)
	assert.Equal(t, "Empty (copy)", dup.Name)
	assert.Empty(t, dup.Tables)
	assert.Empty(t, dup.Links)
}
