package repositories

// Registry bundles every metadata repository of one store together with the
// transaction manager that scopes them
type Registry struct {
	Organizations OrganizationRepository
	Memberships   MembershipRepository
	Folders       FolderRepository
	Files         FileRepository
	Favorites     FavoriteRepository
	Users         UserRepository
	AuditLogs     AuditLogRepository
	Tx            TransactionManager
}
