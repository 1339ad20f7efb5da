package dto

// NavigationEntry un item de navegación derivado de la configuración efectiva.
type NavigationEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// SidebarResponse items del sidebar: módulos habilitados, visibles y
// permitidos para el rol del operador.
type SidebarResponse struct {
	Entries []NavigationEntry `json:"entries"`
}

// DashboardResponse tarjetas del dashboard: módulos habilitados con
// show_in_dashboard activo.
type DashboardResponse struct {
	Cards []NavigationEntry `json:"cards"`
}
