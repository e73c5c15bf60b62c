package resolution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	mockengine "github.com/KirkDiggler/wargame-mechanics/internal/engine/mock"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	mockresolutions "github.com/KirkDiggler/wargame-mechanics/internal/repositories/resolutions/mock"
	"github.com/KirkDiggler/wargame-mechanics/internal/services/resolution"
	"github.com/KirkDiggler/wargame-mechanics/internal/testutils"
	mockuuid "github.com/KirkDiggler/wargame-mechanics/internal/uuid/mock"
)

const testRuleset = "core-rules"

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	repo     *mockresolutions.MockRepository
	resolver *mockengine.MockResolver
	uuidGen  *mockuuid.MockGenerator
	service  resolution.Service
	ctx      context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mockresolutions.NewMockRepository(s.ctrl)
	s.resolver = mockengine.NewMockResolver(s.ctrl)
	s.uuidGen = mockuuid.NewMockGenerator(s.ctrl)
	s.service = resolution.NewService(&resolution.ServiceConfig{
		Repository:    s.repo,
		Resolver:      s.resolver,
		UUIDGenerator: s.uuidGen,
		BatchLimit:    2,
		Ruleset:       testRuleset,
	})
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) combatContext(strength int) *combat.Context {
	return testutils.CreateTestContext(s.T(),
		testutils.CreateTestUnit("intercessors", "Intercessor Squad", 4, 3),
		testutils.CreateTestWeapon("Bolt rifle", strength, -1),
		testutils.CreateTestUnit("cultists", "Cultist Mob", 3, 6),
	)
}

func (s *ServiceTestSuite) TestResolve_CacheHit() {
	combatCtx := s.combatContext(4)
	key, err := resolution.Key(testRuleset, combatCtx)
	s.Require().NoError(err)

	cached := &resolution.Record{ID: "rec-1", Key: key, Resolution: &combat.Resolution{}}
	s.repo.EXPECT().Get(s.ctx, key).Return(cached, nil)

	record, err := s.service.Resolve(s.ctx, combatCtx)
	s.Require().NoError(err)
	s.Same(cached, record)
}

func (s *ServiceTestSuite) TestResolve_CacheMiss() {
	combatCtx := s.combatContext(4)
	key, err := resolution.Key(testRuleset, combatCtx)
	s.Require().NoError(err)

	res := &combat.Resolution{Final: combat.FinalValues{ToWound: 3}}
	s.repo.EXPECT().Get(s.ctx, key).Return(nil, errors.NotFound("resolution not found"))
	s.resolver.EXPECT().Resolve(combatCtx).Return(res, true)
	s.uuidGen.EXPECT().New().Return("rec-2")
	s.repo.EXPECT().Put(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r *resolution.Record) error {
		s.Equal("rec-2", r.ID)
		s.Equal(key, r.Key)
		s.Same(res, r.Resolution)
		return nil
	})

	record, err := s.service.Resolve(s.ctx, combatCtx)
	s.Require().NoError(err)
	s.Equal("rec-2", record.ID)
	s.Equal(3, record.Resolution.Final.ToWound)
}

func (s *ServiceTestSuite) TestResolve_RepositoryReadFailureRecomputes() {
	combatCtx := s.combatContext(4)

	s.repo.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.Internal("connection refused"))
	s.resolver.EXPECT().Resolve(combatCtx).Return(&combat.Resolution{}, true)
	s.uuidGen.EXPECT().New().Return("rec-3")
	s.repo.EXPECT().Put(s.ctx, gomock.Any()).Return(nil)

	record, err := s.service.Resolve(s.ctx, combatCtx)
	s.Require().NoError(err)
	s.Equal("rec-3", record.ID)
}

func (s *ServiceTestSuite) TestResolve_StoreFailure() {
	combatCtx := s.combatContext(4)

	s.repo.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("resolution not found"))
	s.resolver.EXPECT().Resolve(combatCtx).Return(&combat.Resolution{}, true)
	s.uuidGen.EXPECT().New().Return("rec-4")
	s.repo.EXPECT().Put(s.ctx, gomock.Any()).Return(errors.Internal("disk full"))

	_, err := s.service.Resolve(s.ctx, combatCtx)
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *ServiceTestSuite) TestResolve_IncompleteContext() {
	_, err := s.service.Resolve(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "select a target")

	combatCtx := s.combatContext(4)
	combatCtx.Defender.TargetModel = nil
	_, err = s.service.Resolve(s.ctx, combatCtx)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestResolveBatch_PreservesOrder() {
	ctxs := []*combat.Context{s.combatContext(3), s.combatContext(4), s.combatContext(5), s.combatContext(6)}

	s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.NotFound("resolution not found")).Times(len(ctxs))
	s.resolver.EXPECT().Resolve(gomock.Any()).DoAndReturn(func(c *combat.Context) (*combat.Resolution, bool) {
		return &combat.Resolution{Base: combat.BaseValues{Strength: c.Attacker.Weapon.Strength}}, true
	}).Times(len(ctxs))
	s.uuidGen.EXPECT().New().Return("rec").Times(len(ctxs))
	s.repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(len(ctxs))

	records, err := s.service.ResolveBatch(s.ctx, ctxs)
	s.Require().NoError(err)
	s.Require().Len(records, len(ctxs))
	for i, record := range records {
		s.Equal(ctxs[i].Attacker.Weapon.Strength, record.Resolution.Base.Strength)
	}
}

func (s *ServiceTestSuite) TestResolveBatch_Failure() {
	ctxs := []*combat.Context{s.combatContext(4), nil}

	s.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.NotFound("resolution not found")).AnyTimes()
	s.resolver.EXPECT().Resolve(gomock.Any()).Return(&combat.Resolution{}, true).AnyTimes()
	s.uuidGen.EXPECT().New().Return("rec").AnyTimes()
	s.repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	records, err := s.service.ResolveBatch(s.ctx, ctxs)
	s.Require().Error(err)
	s.Nil(records)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(1, errors.GetMeta(err)["index"])
}

func (s *ServiceTestSuite) TestInvalidate() {
	combatCtx := s.combatContext(4)
	key, err := resolution.Key(testRuleset, combatCtx)
	s.Require().NoError(err)

	s.repo.EXPECT().Delete(s.ctx, key).Return(errors.NotFound("resolution not found"))
	s.NoError(s.service.Invalidate(s.ctx, combatCtx))

	s.repo.EXPECT().Delete(s.ctx, key).Return(errors.Internal("boom"))
	s.Error(s.service.Invalidate(s.ctx, combatCtx))
}

func TestKey(t *testing.T) {
	build := func(strength int) *combat.Context {
		return testutils.CreateTestContext(t,
			testutils.CreateTestUnit("intercessors", "Intercessor Squad", 4, 3),
			testutils.CreateTestWeapon("Bolt rifle", strength, -1),
			testutils.CreateTestUnit("cultists", "Cultist Mob", 3, 6),
		)
	}

	a, err := resolution.Key("rules", build(4))
	require.NoError(t, err)
	b, err := resolution.Key("rules", build(4))
	require.NoError(t, err)
	c, err := resolution.Key("rules", build(5))
	require.NoError(t, err)
	d, err := resolution.Key("other rules", build(4))
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestNewService_Panics(t *testing.T) {
	ctrl := gomock.NewController(t)
	assert.PanicsWithValue(t, "repository is required", func() {
		resolution.NewService(&resolution.ServiceConfig{Resolver: mockengine.NewMockResolver(ctrl)})
	})
	assert.PanicsWithValue(t, "resolver is required", func() {
		resolution.NewService(&resolution.ServiceConfig{Repository: mockresolutions.NewMockRepository(ctrl)})
	})
}
