package records

// Builtin returns the demo database loaded at startup.
func Builtin() []Record {
	recs := []Record{
		{Name: "Иванов Иван Иванович", Description: "Агент разведки, Москва", Category: CategoryPerson},
		{Name: "Петров Пётр Петрович", Description: "Аналитик, Санкт-Петербург", Category: CategoryPerson},
		{Name: "Сидорова Анна Викторовна", Description: "Связной, Новосибирск", Category: CategoryPerson},
		{Name: "Объект «Север»", Description: "Складской комплекс, Мурманск", Category: CategoryLocation},
		{Name: "Пункт связи №7", Description: "Ретрансляционная станция, Казань", Category: CategoryLocation},
		{Name: "Порт Восточный", Description: "Грузовой терминал, Находка", Category: CategoryLocation},
		{Name: "УАЗ-469 А123ВС77", Description: "Служебный внедорожник, Москва", Category: CategoryVehicle},
		{Name: "КамАЗ-5350 К456МН78", Description: "Грузовик снабжения, Санкт-Петербург", Category: CategoryVehicle},
		{Name: "Ми-8 RA-24571", Description: "Транспортный вертолёт, Казань", Category: CategoryVehicle},
	}
	assignIDs(recs)
	return recs
}
