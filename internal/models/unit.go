package models

// Unit is one sellable unit of a project in a commercialization period.
type Unit struct {
	ID                       int64    `gorm:"primaryKey;column:id" json:"id"`
	CodProyecto              *string  `gorm:"column:cod_proyecto;index:idx_units_code_period,priority:1" json:"cod_proyecto"`
	Proyecto                 string   `gorm:"column:proyecto;not null;index:idx_units_project_period,priority:1" json:"proyecto"`
	Periodo                  *string  `gorm:"column:periodo;index:idx_units_project_period,priority:2;index:idx_units_code_period,priority:2" json:"periodo"`
	NumUnidad                *string  `gorm:"column:num_unidad" json:"num_unidad"`
	Unidad                   *string  `gorm:"column:unidad" json:"unidad"`
	Modelo                   *string  `gorm:"column:modelo" json:"modelo"`
	TorreFase                *string  `gorm:"column:torre_fase" json:"torre_fase"`
	TamaoUnidad              *float64 `gorm:"column:tama_o_unidad" json:"tama_o_unidad"`
	TamaoBalconTerraza       *float64 `gorm:"column:tama_o_balcon_terraza" json:"tama_o_balcon_terraza"`
	CantDormitorios          *int     `gorm:"column:cant_dormitorios" json:"cant_dormitorios"`
	CantSanitarios           *float64 `gorm:"column:cant_sanitarios" json:"cant_sanitarios"`
	Parqueo                  *string  `gorm:"column:parqueo" json:"parqueo"`
	TipoParqueo              *string  `gorm:"column:tipo_parqueo" json:"tipo_parqueo"`
	CantParqueos             *int     `gorm:"column:cant_parqueos" json:"cant_parqueos"`
	ParqueoMoto              *string  `gorm:"column:parqueo_moto" json:"parqueo_moto"`
	TamaoParqueo             *float64 `gorm:"column:tama_o_parqueo" json:"tama_o_parqueo"`
	TamaoTotal               *float64 `gorm:"column:tama_o_total" json:"tama_o_total"`
	Uso                      *string  `gorm:"column:uso" json:"uso"`
	PrecioTotalUSD           *float64 `gorm:"column:precio_total_usd" json:"precio_total_usd"`
	PrecioTotalQTZ           *float64 `gorm:"column:precio_total_qtz" json:"precio_total_qtz"`
	PrecioSinIvaUSD          *float64 `gorm:"column:precio_sin_iva_usd" json:"precio_sin_iva_usd"`
	PrecioSinIvaQTZ          *float64 `gorm:"column:precio_sin_iva_qtz" json:"precio_sin_iva_qtz"`
	Disponibilidad           *string  `gorm:"column:disponibilidad" json:"disponibilidad"`
	PrecioMantenimientoTotal *float64 `gorm:"column:precio_mantenimiento_total" json:"precio_mantenimiento_total"`
	Categoria                *string  `gorm:"column:categoria" json:"categoria"`
	HoraRecoleccion          *string  `gorm:"column:hora_recoleccion" json:"hora_recoleccion"`
	Cuota                    *float64 `gorm:"column:cuota" json:"cuota"`
	AbsorcionUnitaria        *float64 `gorm:"column:absorcion_unitaria" json:"absorcion_unitaria"`
}

func (Unit) TableName() string { return "housing_units" }

// AvailableStatus is the availability value counted as "available".
const AvailableStatus = "Disponible"

// UnitListItem is the projection used by unit search results.
type UnitListItem struct {
	ID              int64    `gorm:"column:id" json:"id"`
	NumUnidad       *string  `gorm:"column:num_unidad" json:"num_unidad"`
	Modelo          *string  `gorm:"column:modelo" json:"modelo"`
	TorreFase       *string  `gorm:"column:torre_fase" json:"torre_fase"`
	Unidad          *string  `gorm:"column:unidad" json:"unidad"`
	Uso             *string  `gorm:"column:uso" json:"uso"`
	Disponibilidad  *string  `gorm:"column:disponibilidad" json:"disponibilidad"`
	CantDormitorios *int     `gorm:"column:cant_dormitorios" json:"cant_dormitorios"`
	PrecioTotalUSD  *float64 `gorm:"column:precio_total_usd" json:"precio_total_usd"`
	PrecioTotalQTZ  *float64 `gorm:"column:precio_total_qtz" json:"precio_total_qtz"`
	TamaoUnidad     *float64 `gorm:"column:tama_o_unidad" json:"tama_o_unidad"`
}

// UnitDetail is the projection returned by the unit detail endpoints.
type UnitDetail struct {
	Proyecto                 string   `gorm:"column:proyecto" json:"proyecto"`
	Unidad                   *string  `gorm:"column:unidad" json:"unidad"`
	Periodo                  *string  `gorm:"column:periodo" json:"periodo"`
	Modelo                   *string  `gorm:"column:modelo" json:"modelo"`
	TorreFase                *string  `gorm:"column:torre_fase" json:"torre_fase"`
	TamaoUnidad              *float64 `gorm:"column:tama_o_unidad" json:"tama_o_unidad"`
	TamaoBalconTerraza       *float64 `gorm:"column:tama_o_balcon_terraza" json:"tama_o_balcon_terraza"`
	CantDormitorios          *int     `gorm:"column:cant_dormitorios" json:"cant_dormitorios"`
	CantSanitarios           *float64 `gorm:"column:cant_sanitarios" json:"cant_sanitarios"`
	Parqueo                  *string  `gorm:"column:parqueo" json:"parqueo"`
	TipoParqueo              *string  `gorm:"column:tipo_parqueo" json:"tipo_parqueo"`
	CantParqueos             *int     `gorm:"column:cant_parqueos" json:"cant_parqueos"`
	ParqueoMoto              *string  `gorm:"column:parqueo_moto" json:"parqueo_moto"`
	TamaoParqueo             *float64 `gorm:"column:tama_o_parqueo" json:"tama_o_parqueo"`
	TamaoTotal               *float64 `gorm:"column:tama_o_total" json:"tama_o_total"`
	Uso                      *string  `gorm:"column:uso" json:"uso"`
	PrecioTotalUSD           *float64 `gorm:"column:precio_total_usd" json:"precio_total_usd"`
	PrecioTotalQTZ           *float64 `gorm:"column:precio_total_qtz" json:"precio_total_qtz"`
	PrecioSinIvaUSD          *float64 `gorm:"column:precio_sin_iva_usd" json:"precio_sin_iva_usd"`
	PrecioSinIvaQTZ          *float64 `gorm:"column:precio_sin_iva_qtz" json:"precio_sin_iva_qtz"`
	Disponibilidad           *string  `gorm:"column:disponibilidad" json:"disponibilidad"`
	PrecioMantenimientoTotal *float64 `gorm:"column:precio_mantenimiento_total" json:"precio_mantenimiento_total"`
	Categoria                *string  `gorm:"column:categoria" json:"categoria"`
	HoraRecoleccion          *string  `gorm:"column:hora_recoleccion" json:"hora_recoleccion"`
	Cuota                    *float64 `gorm:"column:cuota" json:"cuota"`
	AbsorcionUnitaria        *float64 `gorm:"column:absorcion_unitaria" json:"absorcion_unitaria"`
}

// UnitFilter scopes a unit search to the units of one record.
type UnitFilter struct {
	CodProyecto *string
	Period      string
	Use         string
	Status      string
	Bedrooms    *int
	OldestFirst bool
}

// UnitCatalogs lists the filter choices available for a record's units.
type UnitCatalogs struct {
	Uses           []string `json:"uses"`
	Availabilities []string `json:"availabilities"`
	Bedrooms       []int    `json:"bedrooms"`
}
