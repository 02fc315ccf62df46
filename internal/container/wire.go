//go:build wireinject
// +build wireinject

package container

import (
	"github.com/google/wire"

	"github.com/narwhalmedia/catalog/internal/application"
	appcastmember "github.com/narwhalmedia/catalog/internal/application/castmember"
	appcategory "github.com/narwhalmedia/catalog/internal/application/category"
	appgenre "github.com/narwhalmedia/catalog/internal/application/genre"
	appvideo "github.com/narwhalmedia/catalog/internal/application/video"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	domainevents "github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	"github.com/narwhalmedia/catalog/internal/infrastructure/events"
	gormrepo "github.com/narwhalmedia/catalog/internal/infrastructure/persistence/gorm"
	"github.com/narwhalmedia/catalog/internal/infrastructure/rest"
	"github.com/narwhalmedia/catalog/pkg/config"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

var persistenceSet = wire.NewSet(
	gormrepo.NewDB,
	gormrepo.NewCategoryRepository,
	wire.Bind(new(category.Repository), new(*gormrepo.CategoryRepository)),
	gormrepo.NewCastMemberRepository,
	wire.Bind(new(castmember.Repository), new(*gormrepo.CastMemberRepository)),
	gormrepo.NewGenreRepository,
	wire.Bind(new(genre.Repository), new(*gormrepo.GenreRepository)),
	gormrepo.NewVideoRepository,
	wire.Bind(new(video.Repository), new(*gormrepo.VideoRepository)),
	gormrepo.NewUnitOfWork,
	wire.Bind(new(application.UnitOfWork), new(*gormrepo.UnitOfWork)),
	gormrepo.NewEventStore,
	wire.Bind(new(domainevents.EventStore), new(*gormrepo.EventStore)),
)

var applicationSet = wire.NewSet(
	provideDispatcher,
	application.NewEventSink,
	provideStorage,
	provideUploadPolicy,
	wire.Struct(new(appvideo.Repositories), "*"),
	appcategory.NewService,
	appcastmember.NewService,
	appgenre.NewService,
	appvideo.NewApplicationService,
)

var messagingSet = wire.NewSet(
	provideBroker,
	provideIntegrationPublisher,
	events.NewConvertHandler,
	wire.Bind(new(events.MediaProcessor), new(*appvideo.ApplicationService)),
)

var transportSet = wire.NewSet(
	provideAuth,
	provideAuthGuards,
	wire.Struct(new(rest.CategoryController), "*"),
	wire.Bind(new(rest.CategoryUsecase), new(*appcategory.Service)),
	wire.Struct(new(rest.CastMemberController), "*"),
	wire.Bind(new(rest.CastMemberUsecase), new(*appcastmember.Service)),
	wire.Struct(new(rest.GenreController), "*"),
	wire.Bind(new(rest.GenreUsecase), new(*appgenre.Service)),
	provideVideoController,
	provideHealthController,
	wire.Struct(new(rest.Controllers), "*"),
	provideRouter,
	provideGRPCServer,
)

// InitializeCatalog wires the catalog admin service.
func InitializeCatalog(cfg *config.Config, log *logger.ZapLogger) (*Catalog, func(), error) {
	wire.Build(
		provideZap,
		provideAppLogger,
		persistenceSet,
		applicationSet,
		messagingSet,
		transportSet,
		wire.Struct(new(Catalog), "*"),
	)
	return nil, nil, nil
}
