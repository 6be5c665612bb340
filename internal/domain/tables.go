package domain

var Tables = []interface{}{
	&User{},
	&Product{},
	&Client{},
	&Order{},
	&OrderItem{},
	&CrmOprLog{},
}
