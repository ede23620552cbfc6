package repo

import (
	"testing"

	"gtaeconomy/internal/models"

	"github.com/stretchr/testify/require"
)

func TestImportLogRepository_CRUD(t *testing.T) {
	repository := setupTestRepo(t)

	log := &models.ImportLog{
		Filename:     "gta_online_data.csv",
		Format:       "csv",
		TotalRows:    10,
		ImportedRows: 8,
		FailedRows:   2,
		Status:       "partial",
		FailedData:   `[{"row":1,"message":"error"}]`,
	}

	require.NoError(t, repository.CreateImportLog(log))
	require.NotZero(t, log.ID)

	got, err := repository.GetImportLogByID(log.ID)
	require.NoError(t, err)
	require.Equal(t, log.Filename, got.Filename)
	require.Equal(t, log.TotalRows, got.TotalRows)
	require.Equal(t, log.FailedData, got.FailedData)

	log.Status = "completed"
	log.FailedRows = 0
	log.ImportedRows = 10
	log.FailedData = "[]"
	require.NoError(t, repository.UpdateImportLog(log))

	logs, err := repository.ListImportLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "completed", logs[0].Status)

	require.NoError(t, repository.DeleteImportLog(log.ID))
	_, err = repository.GetImportLogByID(log.ID)
	require.Error(t, err)
}
