package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadQuery(t *testing.T) {
	assert.True(t, IsReadQuery("SELECT 1"))
	assert.True(t, IsReadQuery("  select * from t"))
	assert.True(t, IsReadQuery("\n\tSelect 1"))
	assert.False(t, IsReadQuery("UPDATE t SET a = 1"))
	assert.False(t, IsReadQuery("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.False(t, IsReadQuery(""))
}

func TestResults(t *testing.T) {
	read := NewReadResult([]string{"a"}, [][]string{{"1"}})
	assert.Equal(t, ResultRead, read.Kind)
	assert.Equal(t, "-", read.Database.Name)
	assert.Equal(t, "-", read.Table.Name)

	write := NewWriteResult(3)
	assert.Equal(t, ResultWrite, write.Kind)
	assert.EqualValues(t, 3, write.UpdatedRows)
	assert.Equal(t, "write", write.Kind.String())
}
