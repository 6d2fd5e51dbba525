package targets

// Builtin returns the demo marker set. All installations are fictional.
func Builtin() []Target {
	return []Target{
		{Title: "База «Полярная»", Description: "Гарнизон северного округа", Coordinates: Coordinates{Lat: 68.97, Lng: 33.08}, Category: CategoryMilitary, Priority: PriorityCritical, Classification: ClassTopSecret},
		{Title: "Полигон «Степь»", Description: "Учебный полигон", Coordinates: Coordinates{Lat: 51.23, Lng: 51.37}, Category: CategoryMilitary, Priority: PriorityHigh, Classification: ClassSecret},
		{Title: "Арсенал №4", Description: "Склад вооружения", Coordinates: Coordinates{Lat: 56.13, Lng: 40.41}, Category: CategoryMilitary, Priority: PriorityCritical, Classification: ClassTopSecret},
		{Title: "Завод «Металлист»", Description: "Машиностроительный комбинат", Coordinates: Coordinates{Lat: 56.84, Lng: 60.61}, Category: CategoryIndustry, Priority: PriorityMedium, Classification: ClassConfidential},
		{Title: "Химкомбинат «Восход»", Description: "Производство реагентов", Coordinates: Coordinates{Lat: 53.20, Lng: 50.15}, Category: CategoryIndustry, Priority: PriorityHigh, Classification: ClassSecret},
		{Title: "Мост через Каменку", Description: "Железнодорожный переход", Coordinates: Coordinates{Lat: 55.03, Lng: 82.92}, Category: CategoryBridge, Priority: PriorityHigh, Classification: ClassConfidential},
		{Title: "Северный мост", Description: "Автомобильный переход", Coordinates: Coordinates{Lat: 59.95, Lng: 30.32}, Category: CategoryBridge, Priority: PriorityLow, Classification: ClassConfidential},
		{Title: "Администрация округа", Description: "Региональное управление", Coordinates: Coordinates{Lat: 55.75, Lng: 37.62}, Category: CategoryAdmin, Priority: PriorityMedium, Classification: ClassSecret},
		{Title: "Аэродром «Крылья»", Description: "Военно-транспортная авиация", Coordinates: Coordinates{Lat: 55.79, Lng: 49.12}, Category: CategoryAirfield, Priority: PriorityHigh, Classification: ClassSecret},
		{Title: "Запасной аэродром", Description: "Грунтовая полоса", Coordinates: Coordinates{Lat: 52.29, Lng: 104.28}, Category: CategoryAirfield, Priority: PriorityLow, Classification: ClassConfidential},
		{Title: "Узел связи «Центр»", Description: "Командный пункт", Coordinates: Coordinates{Lat: 55.70, Lng: 37.53}, Category: CategoryCommand, Priority: PriorityCritical, Classification: ClassTopSecret},
		{Title: "Резервный КП", Description: "Подземный командный пункт", Coordinates: Coordinates{Lat: 54.71, Lng: 20.51}, Category: CategoryCommand, Priority: PriorityHigh, Classification: ClassTopSecret},
	}
}
