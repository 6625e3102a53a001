package domain

var Tables = []interface{}{
	// System
	&Settings{},
	&SysOprLog{},
	// Catalog
	&Product{},
}
