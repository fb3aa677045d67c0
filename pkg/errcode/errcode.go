package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Store errors
	StoreUnknownBackendError
	StoreOpenError
	StoreCloseError
	StoreClosedError
	StoreReadError
	StoreWriteError
	StoreDecodeError
	StoreEntryNotFoundError
	StoreCompactError

	// Import errors
	ImportSourcesConfigError
	ImportNoSourcesError
	ImportSFGAFileNotFoundError
	ImportSFGAReadError
	ImportSFGAVersionError
	ImportSFGAVersionTooOldError
	ImportCacheError
	ImportResultsError
	ImportCancelledError
	ImportAllSourcesFailedError
)
