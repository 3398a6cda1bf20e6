package models

import "time"

// Record is one project-period row of the housing universe.
type Record struct {
	ID                      int64      `gorm:"primaryKey;column:id;index:idx_universe_project_id,priority:2" json:"id"`
	CodProyecto             *string    `gorm:"column:cod_proyecto;index:idx_universe_code_period,priority:1" json:"cod_proyecto"`
	FechaRecoleccion        *time.Time `gorm:"column:fecha_recoleccion" json:"fecha_recoleccion"`
	Proyecto                string     `gorm:"column:proyecto;not null;index:idx_universe_project_id,priority:1;index:idx_universe_project_period,priority:1" json:"proyecto"`
	Fase                    *string    `gorm:"column:fase" json:"fase"`
	Torre                   *string    `gorm:"column:torre" json:"torre"`
	Periodo                 string     `gorm:"column:periodo;not null;index:idx_universe_project_period,priority:2;index:idx_universe_code_period,priority:2" json:"periodo"`
	Categoria               string     `gorm:"column:categoria;not null" json:"categoria"`
	Pais                    string     `gorm:"column:pais" json:"pais"`
	Departamento            *string    `gorm:"column:departamento" json:"departamento"`
	Municipio               *string    `gorm:"column:municipio" json:"municipio"`
	Zona                    *string    `gorm:"column:zona" json:"zona"`
	Subzona                 *string    `gorm:"column:subzona" json:"subzona"`
	Desarrollador           *string    `gorm:"column:desarrollador" json:"desarrollador"`
	Estado                  *string    `gorm:"column:estado" json:"estado"`
	Uso                     *string    `gorm:"column:uso" json:"uso"`
	FechaInicio             *time.Time `gorm:"column:fecha_inicio" json:"fecha_inicio"`
	FechaEntrega            *time.Time `gorm:"column:fecha_entrega" json:"fecha_entrega"`
	MesesDeComercializacion *int       `gorm:"column:meses_de_comercializacion" json:"meses_de_comercializacion"`
	Latitud                 *string    `gorm:"column:latitud" json:"latitud"`
	Longitud                *string    `gorm:"column:longitud" json:"longitud"`
	FHA                     *string    `gorm:"column:fha" json:"fha"`
	TotalUnidades           *int       `gorm:"column:total_unidades" json:"total_unidades"`
	TotalM2                 *float64   `gorm:"column:total_m2" json:"total_m2"`
	TipoDeSeguridad         *string    `gorm:"column:tipo_de_seguridad" json:"tipo_de_seguridad"`
	Muvi                    *string    `gorm:"column:muvi" json:"muvi"`
	UnidadesDisponibles     *int       `gorm:"column:unidades_disponibles" json:"unidades_disponibles"`
	M2Disponibles           *float64   `gorm:"column:m2_disponibles" json:"m2_disponibles"`
	PrecioPromedio          *float64   `gorm:"column:precio_promedio" json:"precio_promedio"`
	TamanoPromedio          *float64   `gorm:"column:tamano_promedio" json:"tamano_promedio"`
	PrecioPromM2            *float64   `gorm:"column:precio_prom_m2" json:"precio_prom_m2"`
	CuotaPromedio           *float64   `gorm:"column:cuota_promedio" json:"cuota_promedio"`
	IngresosPromedio        *float64   `gorm:"column:ingresos_promedio" json:"ingresos_promedio"`
	NSEProyecto             *string    `gorm:"column:nse_proyecto" json:"nse_proyecto"`
	Showroom                *string    `gorm:"column:showroom" json:"showroom"`
	CasaModelo              *string    `gorm:"column:casa_modelo" json:"casa_modelo"`
	CantidadAccesos         *string    `gorm:"column:cantidad_accesos" json:"cantidad_accesos"`
	Mercado                 string     `gorm:"column:mercado" json:"mercado"`
	PrecioParqueoAdicional  *float64   `gorm:"column:precio_parqueo_adicional" json:"precio_parqueo_adicional"`
	ParqueosVisita          *int       `gorm:"column:parqueos_visita" json:"parqueos_visita"`
	ParqueosAsignados       *int       `gorm:"column:parqueos_asignados" json:"parqueos_asignados"`
	TotalParqueosProyecto   int        `gorm:"column:total_parqueos_proyecto" json:"total_parqueos_proyecto"`
	URLImagen               *string    `gorm:"column:url_imagen" json:"url_imagen"`
	MigNumber               *int       `gorm:"column:mig_number" json:"mig_number"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Record) TableName() string { return "housing_universe" }

// RecordSummary is a search result row with unit counts attached.
type RecordSummary struct {
	ID                  int64   `json:"id"`
	Proyecto            string  `json:"proyecto"`
	Categoria           string  `json:"categoria"`
	Zona                *string `json:"zona"`
	Periodo             string  `json:"periodo"`
	TotalUnidades       int64   `json:"total_unidades"`
	UnidadesDisponibles int64   `json:"unidades_disponibles"`
}

// ProjectOption is one autocomplete suggestion.
type ProjectOption struct {
	Proyecto  string  `json:"proyecto"`
	Categoria string  `json:"categoria"`
	Zona      *string `json:"zona"`
	Estado    *string `json:"estado"`
}

// RecordFilter holds the equality filters of a record search. Empty
// optional fields add no constraint.
type RecordFilter struct {
	Project  string
	Zone     string
	Category string
	Period   string
}
