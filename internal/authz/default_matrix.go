package authz

// --- МАТРИЦА ДОСТУПА ПО УМОЛЧАНИЮ ---
// Ей же наполняется хранилище при первом запуске (см. seeders).

var (
	allPerms = []Permission{PermView, PermCreate, PermEdit, PermDelete, PermManage}
	none     = []Permission{}
)

var defaultMatrixTable = MatrixTable{
	RoleAdmin: {
		FeatureDashboard:  allPerms,
		FeatureProjects:   allPerms,
		FeatureStaff:      allPerms,
		FeatureClients:    allPerms,
		FeatureAttendance: allPerms,
		FeatureReports:    allPerms,
		FeatureSettings:   allPerms,
		FeatureTasks:      allPerms,
		FeatureResidency:  allPerms,
	},
	RoleProjectManager: {
		FeatureDashboard:  {PermView},
		FeatureProjects:   allPerms,
		FeatureStaff:      {PermView},
		FeatureClients:    {PermView, PermCreate, PermEdit},
		FeatureAttendance: none,
		FeatureReports:    {PermView},
		FeatureSettings:   none,
		FeatureTasks:      allPerms,
		FeatureResidency:  none,
	},
	RoleEngineer: {
		FeatureDashboard:  {PermView},
		FeatureProjects:   {PermView},
		FeatureStaff:      none,
		FeatureClients:    none,
		FeatureAttendance: none,
		FeatureReports:    none,
		FeatureSettings:   none,
		FeatureTasks:      {PermView, PermEdit},
		FeatureResidency:  none,
	},
	RoleAdminStaff: {
		FeatureDashboard:  {PermView},
		FeatureProjects:   {PermView},
		FeatureStaff:      {PermView, PermCreate, PermEdit},
		FeatureClients:    {PermView, PermCreate, PermEdit, PermDelete},
		FeatureAttendance: {PermView, PermCreate, PermEdit},
		FeatureReports:    {PermView},
		FeatureSettings:   none,
		FeatureTasks:      {PermView},
		FeatureResidency:  {PermView, PermCreate, PermEdit},
	},
	RoleHRManager: {
		FeatureDashboard:  {PermView},
		FeatureProjects:   {PermView},
		FeatureStaff:      allPerms,
		FeatureClients:    {PermView},
		FeatureAttendance: allPerms,
		FeatureReports:    {PermView, PermCreate},
		FeatureSettings:   none,
		FeatureTasks:      {PermView},
		FeatureResidency:  allPerms,
	},
	RoleGeneralManager: {
		FeatureDashboard:  {PermView},
		FeatureProjects:   {PermView, PermManage},
		FeatureStaff:      {PermView, PermManage},
		FeatureClients:    {PermView, PermManage},
		FeatureAttendance: {PermView, PermManage},
		FeatureReports:    {PermView, PermCreate, PermManage},
		FeatureSettings:   {PermView},
		FeatureTasks:      {PermView, PermManage},
		FeatureResidency:  {PermView, PermManage},
	},
}

// DefaultMatrix собирает встроенную матрицу. Ошибка здесь — баг конфигурации,
// поэтому вызывается при старте приложения.
func DefaultMatrix() (*Matrix, error) {
	return NewMatrix(defaultMatrixTable)
}
