package extract

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to the operations database the extracts are pulled
// from when ROS_DATA_FORMAT=db.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disable implicit prepared statements to avoid "prepared statement already exists" errors
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// LoadDatabase pulls the nine extract tables straight out of the operations
// database. Values are flattened to strings so the same normalization path
// handles file and database sources alike.
func LoadDatabase(db *gorm.DB) (Set, error) {
	set := make(Set, len(ExtractNames))
	for _, name := range ExtractNames {
		table, err := loadDBTable(db, name)
		if err != nil {
			return nil, fmt.Errorf("loading %s extract: %w", name, err)
		}
		set[name] = table
	}
	return set, nil
}

func loadDBTable(db *gorm.DB, name string) (*Table, error) {
	rows, err := db.Raw("SELECT * FROM " + name).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var data [][]string
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = stringifyValue(v)
		}
		data = append(data, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewTable(name, columns, data), nil
}

// stringifyValue renders a scanned SQL value the way the CSV extracts encode
// it, so downstream parsing sees one representation.
func stringifyValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}
